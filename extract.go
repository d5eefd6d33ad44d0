package multiparser

import "strconv"

// filterFullFile applies a full-file trackable's selectors to a record's
// top-level keys. With no selectors, all keys pass.
func filterFullFile(record Record, selectors []Selector) Record {
	if len(selectors) == 0 {
		return record
	}
	out := make(Record, len(record))
	for k, v := range record {
		for _, sel := range selectors {
			if sel.matches(k) {
				out[k] = v
				break
			}
		}
	}
	return out
}

// extractTailLine applies every (label, regex) selector of a tail
// trackable to a single line, per these capture-group rules:
//
//   - zero capture groups: the whole match is the value, a label is required
//   - one capture group: the group is the value, a label is required
//   - two capture groups: first is label, second is value, unless a
//     non-empty label override is supplied, in which case the override wins
//   - three or more capture groups: a schema error
//
// It returns nil, nil if no selector matched the line.
func extractTailLine(op string, t *TailTrackable, line string) (Record, error) {
	record := make(Record)
	matched := false

	for _, sel := range t.Values {
		m := sel.Regex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		matched = true

		groups := m[1:]
		var key, value string
		switch len(groups) {
		case 0:
			if sel.Label == "" {
				return nil, schemaError(op, "regex %q has no capture group and no label was provided", sel.Regex.String())
			}
			key, value = sel.Label, m[0]
		case 1:
			if sel.Label == "" {
				return nil, schemaError(op, "regex %q has a single capture group and no label was provided", sel.Regex.String())
			}
			key, value = sel.Label, groups[0]
		case 2:
			key, value = groups[0], groups[1]
			if sel.Label != "" {
				key = sel.Label
			}
		default:
			return nil, schemaError(op, "regex %q has %d capture groups, at most 2 are supported", sel.Regex.String(), len(groups))
		}

		record[key] = convertValue(value, t.convertEnabled())
	}

	if !matched {
		return nil, nil
	}
	return record, nil
}

// convertValue converts a captured string to an int64 or float64 when it
// parses as one and convert is true; otherwise it is kept as text.
func convertValue(s string, convert bool) any {
	if !convert {
		return s
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
