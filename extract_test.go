package multiparser

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterFullFileNoSelectors(t *testing.T) {
	record := Record{"a": 1, "b": 2}

	out := filterFullFile(record, nil)

	require.Equal(t, record, out)
}

func TestFilterFullFileLiteralAndPattern(t *testing.T) {
	record := Record{"alpha": 1, "beta": 2, "gamma": 3}
	selectors := []Selector{
		Literal("alpha"),
		Pattern(regexp.MustCompile(`be.*`)),
	}

	out := filterFullFile(record, selectors)

	require.Equal(t, Record{"alpha": 1, "beta": 2}, out)
}

func TestExtractTailLineZeroGroupsRequiresLabel(t *testing.T) {
	tr := &TailTrackable{Values: []LabeledPattern{Value(regexp.MustCompile(`ready`))}}

	_, err := extractTailLine("tail", tr, "server ready")

	require.Error(t, err)
	var merr *Error
	require.ErrorAs(t, err, &merr)
	require.Equal(t, KindParser, merr.Kind)
}

func TestExtractTailLineZeroGroupsWithLabel(t *testing.T) {
	tr := &TailTrackable{Values: []LabeledPattern{LabeledValue("status", regexp.MustCompile(`ready`))}}

	rec, err := extractTailLine("tail", tr, "server ready")

	require.NoError(t, err)
	require.Equal(t, Record{"status": "ready"}, rec)
}

func TestExtractTailLineOneGroupRequiresLabel(t *testing.T) {
	tr := &TailTrackable{Values: []LabeledPattern{Value(regexp.MustCompile(`temp=(\d+)`))}}

	_, err := extractTailLine("tail", tr, "temp=42")

	require.Error(t, err)
}

func TestExtractTailLineOneGroupWithLabel(t *testing.T) {
	tr := &TailTrackable{Values: []LabeledPattern{LabeledValue("temperature", regexp.MustCompile(`temp=(\d+)`))}}

	rec, err := extractTailLine("tail", tr, "temp=42")

	require.NoError(t, err)
	require.Equal(t, int64(42), rec["temperature"])
}

func TestExtractTailLineTwoGroupsLabelValue(t *testing.T) {
	tr := &TailTrackable{Values: []LabeledPattern{Value(regexp.MustCompile(`(\w+)=([\d.]+)`))}}

	rec, err := extractTailLine("tail", tr, "pressure=3.5")

	require.NoError(t, err)
	require.Equal(t, 3.5, rec["pressure"])
}

func TestExtractTailLineTwoGroupsLabelOverride(t *testing.T) {
	tr := &TailTrackable{Values: []LabeledPattern{LabeledValue("override", regexp.MustCompile(`(\w+)=([\d.]+)`))}}

	rec, err := extractTailLine("tail", tr, "pressure=3.5")

	require.NoError(t, err)
	require.Equal(t, 3.5, rec["override"])
	_, ok := rec["pressure"]
	require.False(t, ok)
}

func TestExtractTailLineThreeGroupsIsSchemaError(t *testing.T) {
	tr := &TailTrackable{Values: []LabeledPattern{Value(regexp.MustCompile(`(\w+)=(\w+)=(\w+)`))}}

	_, err := extractTailLine("tail", tr, "a=b=c")

	require.Error(t, err)
}

func TestExtractTailLineNoMatchReturnsNilNil(t *testing.T) {
	tr := &TailTrackable{Values: []LabeledPattern{LabeledValue("x", regexp.MustCompile(`nomatch`))}}

	rec, err := extractTailLine("tail", tr, "irrelevant line")

	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestExtractTailLineConvertDisabled(t *testing.T) {
	no := false
	tr := &TailTrackable{
		Values:  []LabeledPattern{LabeledValue("count", regexp.MustCompile(`\d+`))},
		Convert: &no,
	}

	rec, err := extractTailLine("tail", tr, "42")

	require.NoError(t, err)
	require.Equal(t, "42", rec["count"])
}
