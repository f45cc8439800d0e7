package model

// Image is either new binary content pending upload or a reference to
// already-persisted content. Every image-bearing field classifies its list
// into the two kinds before submission.
type Image struct {
	Name string
	Data []byte
	Ref  string
}

// Upload builds an image entry carrying new binary content. The data slice
// stays non-nil so zero-byte uploads keep their upload identity.
func Upload(name string, data []byte) Image {
	if data == nil {
		data = []byte{}
	}
	return Image{Name: name, Data: data}
}

// Persisted builds an image entry referencing stored content.
func Persisted(ref string) Image {
	return Image{Ref: ref}
}

// IsUpload reports whether the entry carries new binary content.
func (i Image) IsUpload() bool {
	return i.Data != nil
}

// IsPersisted reports whether the entry references stored content.
func (i Image) IsPersisted() bool {
	return !i.IsUpload() && i.Ref != ""
}

// PersistedImages converts stored references into image entries.
func PersistedImages(refs []string) []Image {
	if len(refs) == 0 {
		return nil
	}
	out := make([]Image, 0, len(refs))
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		out = append(out, Persisted(ref))
	}
	return out
}

// SplitImages partitions a list into uploads and persisted references,
// preserving order inside each partition.
func SplitImages(images []Image) (uploads []Image, refs []string) {
	for _, img := range images {
		switch {
		case img.IsUpload():
			uploads = append(uploads, img)
		case img.IsPersisted():
			refs = append(refs, img.Ref)
		}
	}
	return uploads, refs
}
