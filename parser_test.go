package multiparser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFileParserValidateSuccess(t *testing.T) {
	p := NewFileParser(func(path string, args map[string]any) (Metadata, any, error) {
		return nil, Record{"ok": true}, nil
	})

	require.NoError(t, p.validate("track"))
}

func TestNewFileParserValidatePropagatesError(t *testing.T) {
	p := NewFileParser(func(path string, args map[string]any) (Metadata, any, error) {
		return nil, nil, errors.New("boom")
	})

	err := p.validate("track")

	require.Error(t, err)
	var merr *Error
	require.ErrorAs(t, err, &merr)
	require.Equal(t, KindConfiguration, merr.Kind)
}

func TestNewFileParserValidateRecoversPanic(t *testing.T) {
	p := NewFileParser(func(path string, args map[string]any) (Metadata, any, error) {
		panic("kaboom")
	})

	err := p.validate("track")

	require.Error(t, err)
}

func TestNewLogParserValidateSuccess(t *testing.T) {
	p := NewLogParser(func(content string, args map[string]any) (Metadata, []Record, error) {
		return nil, []Record{{"line": content}}, nil
	})

	require.NoError(t, p.validate("tail"))
}

func TestZeroParserFailsValidation(t *testing.T) {
	var p Parser

	err := p.validate("track")

	require.Error(t, err)
}

func TestNormalizeFileResultNil(t *testing.T) {
	out, err := normalizeFileResult(nil, nil)

	require.NoError(t, err)
	require.Nil(t, out)
}

func TestNormalizeFileResultSingleRecord(t *testing.T) {
	out, err := normalizeFileResult(Metadata{"a": 1}, Record{"x": 1})

	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, Record{"x": 1}, out[0].record)
}

func TestNormalizeFileResultRecordSlice(t *testing.T) {
	out, err := normalizeFileResult(nil, []Record{{"x": 1}, {"y": 2}})

	require.NoError(t, err)
	require.Len(t, out, 2)
}

func TestNormalizeFileResultUnsupportedType(t *testing.T) {
	_, err := normalizeFileResult(nil, 42)

	require.Error(t, err)
}

func TestNormalizeFileResultAnySliceWrongElementType(t *testing.T) {
	_, err := normalizeFileResult(nil, []any{"not-a-record"})

	require.Error(t, err)
}
