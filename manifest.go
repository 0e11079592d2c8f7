package batchconv

import "encoding/json"

// ManifestFileName is the archive entry holding the batch summary.
const ManifestFileName = "manifest.json"

// Manifest is the serialized batch summary written into the result archive.
type Manifest struct {
	Items []ManifestItem `json:"items"`
}

// ManifestItem records one input item's outcome, payload excluded.
type ManifestItem struct {
	Name       string         `json:"name"`
	Origin     Origin         `json:"origin"`
	Status     Status         `json:"status"`
	OutputName string         `json:"outputName,omitempty"`
	Error      *ManifestError `json:"error,omitempty"`
}

// ManifestError carries the kind and verbatim message of a non-success.
type ManifestError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// buildManifest converts outcomes to their serialized form, in input order.
func buildManifest(outcomes []ConversionOutcome) Manifest {
	m := Manifest{Items: make([]ManifestItem, 0, len(outcomes))}
	for _, o := range outcomes {
		item := ManifestItem{
			Name:       o.Name,
			Origin:     o.Origin,
			Status:     o.Status,
			OutputName: o.OutputName,
		}
		if o.ErrorKind != "" {
			item.Error = &ManifestError{Kind: o.ErrorKind, Message: o.ErrorMessage}
		}
		m.Items = append(m.Items, item)
	}
	return m
}

func (m Manifest) encode() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
