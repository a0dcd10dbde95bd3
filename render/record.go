package render

import (
	"errors"
	"fmt"
	"io"

	yaml "gopkg.in/yaml.v3"

	"qrender/hydrate"
)

// recordID accepts plain string identifiers as well as exported Mongo
// object ids ({"$oid": "..."}).
type recordID string

func (id *recordID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		var oid struct {
			OID string `yaml:"$oid"`
		}
		if err := value.Decode(&oid); err != nil {
			return err
		}
		if len(oid.OID) == 0 {
			return fmt.Errorf("line %d: object id without $oid", value.Line)
		}
		*id = recordID(oid.OID)
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	*id = recordID(s)
	return nil
}

// record is question document as it is exported from the legacy database.
// Fields not needed for rendering are ignored, except for few bits of
// metadata that are passed through to the output.
type record struct {
	ID          recordID `yaml:"_id"`
	Name        string   `yaml:"name"`
	Source      string   `yaml:"source"`
	Tags        []string `yaml:"tags"`
	Question    string   `yaml:"question"`
	Explanation string   `yaml:"explanation"`
	Images      struct {
		Question    []string `yaml:"question"`
		Explanation []string `yaml:"explanation"`
	} `yaml:"images"`
}

func (r *record) raw() *hydrate.RawRecord {
	return &hydrate.RawRecord{
		ID:                         string(r.ID),
		QuestionBody:               r.Question,
		ExplanationBody:            r.Explanation,
		PrimaryQuestionAssetIDs:    r.Images.Question,
		PrimaryExplanationAssetIDs: r.Images.Explanation,
	}
}

// decodeRecords reads all records from the stream. Stream may hold several
// YAML documents, and each document is either single record or a list of
// them. JSON is read by the same decoder.
func decodeRecords(r io.Reader) ([]*record, error) {
	var records []*record

	dec := yaml.NewDecoder(r)
	for n := 0; ; n++ {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to decode document %d: %w", n, err)
		}
		if len(node.Content) == 0 {
			continue
		}

		doc := node.Content[0]
		switch {
		case doc.Kind == yaml.ScalarNode && doc.Tag == "!!null":
			// empty document
			continue
		case doc.Kind == yaml.SequenceNode:
			var list []*record
			if err := doc.Decode(&list); err != nil {
				return nil, fmt.Errorf("unable to decode records in document %d: %w", n, err)
			}
			records = append(records, list...)
		case doc.Kind == yaml.MappingNode:
			rec := &record{}
			if err := doc.Decode(rec); err != nil {
				return nil, fmt.Errorf("unable to decode record in document %d: %w", n, err)
			}
			records = append(records, rec)
		default:
			return nil, fmt.Errorf("document %d (line %d) is neither record nor list of records", n, doc.Line)
		}
	}

	for i, rec := range records {
		if rec == nil {
			return nil, fmt.Errorf("record %d is empty", i)
		}
		if len(rec.ID) == 0 {
			return nil, fmt.Errorf("record %d has no _id", i)
		}
	}
	return records, nil
}
