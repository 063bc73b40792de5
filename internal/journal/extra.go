package journal

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

var (
	rootStateFields     = jsonFieldNames(reflect.TypeOf(RootState{}))
	projectRecordFields = jsonFieldNames(reflect.TypeOf(ProjectRecord{}))
	logRecordFields     = jsonFieldNames(reflect.TypeOf(LogRecord{}))
	snippetRecordFields = jsonFieldNames(reflect.TypeOf(SnippetRecord{}))
)

func jsonFieldNames(t reflect.Type) map[string]struct{} {
	names := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		names[name] = struct{}{}
	}
	return names
}

// unknownFields returns the keys of the JSON object that are not in known, or nil when there are none.
func unknownFields(data []byte, known map[string]struct{}) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("json.Unmarshal() > %w", err)
	}
	var extra map[string]json.RawMessage
	for key, value := range all {
		if _, ok := known[key]; ok {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[key] = value
	}
	return extra, nil
}

// marshalWithExtra encodes v and merges the extra keys into the resulting object.
// Keys of v always win over extra keys of the same name.
func marshalWithExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return data, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for key, value := range extra {
		if _, ok := merged[key]; ok {
			continue
		}
		merged[key] = value
	}
	return json.Marshal(merged)
}

func (r *RootState) UnmarshalJSON(data []byte) error {
	type plain RootState
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := unknownFields(data, rootStateFields)
	if err != nil {
		return err
	}
	*r = RootState(p)
	r.Extra = extra
	return nil
}

func (r RootState) MarshalJSON() ([]byte, error) {
	type plain RootState
	return marshalWithExtra(plain(r), r.Extra)
}

func (p *ProjectRecord) UnmarshalJSON(data []byte) error {
	type plain ProjectRecord
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := unknownFields(data, projectRecordFields)
	if err != nil {
		return err
	}
	*p = ProjectRecord(v)
	p.Extra = extra
	return nil
}

func (p ProjectRecord) MarshalJSON() ([]byte, error) {
	type plain ProjectRecord
	return marshalWithExtra(plain(p), p.Extra)
}

func (l *LogRecord) UnmarshalJSON(data []byte) error {
	type plain LogRecord
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := unknownFields(data, logRecordFields)
	if err != nil {
		return err
	}
	*l = LogRecord(v)
	l.Extra = extra
	return nil
}

func (l LogRecord) MarshalJSON() ([]byte, error) {
	type plain LogRecord
	return marshalWithExtra(plain(l), l.Extra)
}

func (s *SnippetRecord) UnmarshalJSON(data []byte) error {
	type plain SnippetRecord
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := unknownFields(data, snippetRecordFields)
	if err != nil {
		return err
	}
	*s = SnippetRecord(v)
	s.Extra = extra
	return nil
}

func (s SnippetRecord) MarshalJSON() ([]byte, error) {
	type plain SnippetRecord
	return marshalWithExtra(plain(s), s.Extra)
}
