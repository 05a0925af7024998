package files

import "strings"

// Kind routes an upload to the component that can read it.
type Kind int

const (
	KindUnsupported Kind = iota
	// KindProfileExport is a JSON Resume / LinkedIn export handled without AI.
	KindProfileExport
	// KindDocument is sent to the model for extraction.
	KindDocument
)

func (k Kind) String() string {
	switch k {
	case KindProfileExport:
		return "profile-export"
	case KindDocument:
		return "document"
	default:
		return "unsupported"
	}
}

// Classify decides how an upload is processed.
func Classify(e Encoded) Kind {
	switch mt := e.MediaType(); {
	case mt == MIMEJSON:
		return KindProfileExport
	case mt == MIMEPDF, mt == MIMEDOCX:
		return KindDocument
	case strings.HasPrefix(mt, "text/"), strings.HasPrefix(mt, "image/"):
		return KindDocument
	default:
		return KindUnsupported
	}
}

// Split partitions uploads into profile exports and model-bound documents.
// Unsupported files are returned separately so the caller can report them.
func Split(in []Encoded) (exports, documents, unsupported []Encoded) {
	for _, e := range in {
		switch Classify(e) {
		case KindProfileExport:
			exports = append(exports, e)
		case KindDocument:
			documents = append(documents, e)
		default:
			unsupported = append(unsupported, e)
		}
	}
	return exports, documents, unsupported
}

// ForModel prepares a file for an inline model part. The model does not read
// DOCX natively, so those files are converted to plain text locally.
func ForModel(e Encoded) (Encoded, error) {
	if e.MediaType() != MIMEDOCX {
		e.MIMEType = e.MediaType()
		return e, nil
	}
	text, err := ExtractText(e)
	if err != nil {
		return Encoded{}, err
	}
	out := Encode(e.Name, []byte(text))
	out.MIMEType = MIMEText
	return out, nil
}
