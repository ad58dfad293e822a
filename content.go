package refgen

// Part is one element of a multi-part request: either text or an inline image.
type Part struct {
	Text  string
	Image *InlineImage
}

// InlineImage is image data embedded in a request part.
type InlineImage struct {
	Data     []byte
	MIMEType string

	// Source is the file the data was read from, for logging.
	Source string
}

// IsText reports whether the part carries text rather than an image.
func (p Part) IsText() bool {
	return p.Image == nil
}

// TextPart returns a text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// ImagePart returns an inline image part for img.
func ImagePart(img *ImageFile) Part {
	return Part{Image: &InlineImage{Data: img.Data, MIMEType: img.MIMEType, Source: img.Path}}
}

// AssembleContent builds the ordered request payload:
// the instruction, style images, logo images, then the references.
//
// The instruction must come first; the model reads it as applying to every
// image that follows.
func AssembleContent(instruction string, aux []LoadedAuxiliary, refs ValidatedReferenceSet) []Part {
	parts := make([]Part, 0, 1+len(aux)+refs.Len())
	parts = append(parts, TextPart(instruction))

	for _, a := range aux {
		if a.Tag == AuxiliaryStyle {
			parts = append(parts, ImagePart(a.Image))
		}
	}
	for _, a := range aux {
		if a.Tag == AuxiliaryLogo {
			parts = append(parts, ImagePart(a.Image))
		}
	}
	for _, ref := range refs {
		parts = append(parts, ImagePart(ref.Image))
	}
	return parts
}

// hasStyle reports whether aux contains a style image.
func hasStyle(aux []LoadedAuxiliary) bool {
	for _, a := range aux {
		if a.Tag == AuxiliaryStyle {
			return true
		}
	}
	return false
}
