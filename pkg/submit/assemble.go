package submit

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/goliatone/go-productform/pkg/linked"
	"github.com/goliatone/go-productform/pkg/model"
)

// Sentinels the transport layer uses to distinguish "no change" from
// "remove everything".
const (
	MainImageClear       = "null"
	ClearAdditionalKey   = "clearAdditionalImages"
	AdditionalImagesKey  = "additionalImages"
	AdditionalImageURLs  = "additionalImageUrls"
	RelatedImagesKey     = "relatedImages"
	RelatedImageURLsKey  = "relatedImageUrls"
	LocalImagesKey       = "localImages"
	LocalImageURLsKey    = "localImageUrls"
	RelatedProductIDsKey = "relatedProductIds"
	LocalProductIDsKey   = "localProductIds"
)

// FieldError is a cross-entity constraint violation raised during assembly.
// It addresses the selection field the operator must fix.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Assemble converts final form values plus the linked-product row lists into
// the flat multipart payload. It must run only after validation passes; when
// an image-without-selection constraint fails it returns a FieldError and no
// payload is built.
func Assemble(values *model.FormValues, related, local *linked.List) (*Payload, error) {
	if err := checkGuards(values, related, local); err != nil {
		return nil, err
	}

	payload := &Payload{}
	payload.appendValue("name", values.Name)
	payload.appendValue("enabled", strconv.FormatBool(values.Enabled))
	payload.appendValue("temporaryCode", values.Code)
	payload.appendValue("description", values.Description)
	payload.appendValue("excludeProductSpec", strconv.FormatBool(values.ExcludeProductSpec))
	payload.appendValue("recordProductHistory", strconv.FormatBool(values.RecordProductHistory))
	payload.appendValue("printImage", strconv.FormatBool(values.PrintImage))
	payload.appendValue("recordStockTransaction", strconv.FormatBool(values.RecordStockTransaction))
	payload.appendValue("status", values.Status)
	payload.appendValue("productTypeId", values.ProductTypeValue())
	payload.appendValue("gst", values.GST)
	payload.appendValue("relatedProductId", refValue(values.RelatedProductID))
	payload.appendValue("localProductId", refValue(values.LocalProductID))

	spec, err := json.Marshal(values.SpecificationDocument())
	if err != nil {
		return nil, fmt.Errorf("submit: encode specification: %w", err)
	}
	payload.appendValue("specification", string(spec))

	if err := appendRows(payload, related, RelatedProductIDsKey, RelatedImagesKey); err != nil {
		return nil, err
	}
	if err := appendRows(payload, local, LocalProductIDsKey, LocalImagesKey); err != nil {
		return nil, err
	}

	appendMainImage(payload, values.Image)
	appendAdditionalImages(payload, values.AdditionalImages)
	appendLegacyImages(payload, values.RelatedImages, RelatedImagesKey, RelatedImageURLsKey)
	appendLegacyImages(payload, values.LocalImages, LocalImagesKey, LocalImageURLsKey)

	return payload, nil
}

func checkGuards(values *model.FormValues, related, local *linked.List) error {
	if len(values.RelatedImages) > 0 && refValue(values.RelatedProductID) == "" {
		return &FieldError{Field: "relatedProductId", Message: "Please select Related Product before uploading images"}
	}
	if len(values.LocalImages) > 0 && refValue(values.LocalProductID) == "" {
		return &FieldError{Field: "localProductId", Message: "Please select Local Product before uploading images"}
	}
	if rowMissingSelection(related) {
		return &FieldError{Field: "relatedProductId", Message: "Please select Related Product before uploading images"}
	}
	if rowMissingSelection(local) {
		return &FieldError{Field: "localProductId", Message: "Please select Local Product before uploading images"}
	}
	return nil
}

func rowMissingSelection(list *linked.List) bool {
	if list == nil {
		return false
	}
	for _, entry := range list.Entries() {
		if len(entry.Images) > 0 && !entry.HasSelection() {
			return true
		}
	}
	return false
}

// appendRows emits the list-level id array plus the per-row binary images
// under position-scoped keys. Persisted references on rows are not
// re-submitted; only the legacy single-list fields carry a URL split.
func appendRows(payload *Payload, list *linked.List, idsKey, imagePrefix string) error {
	if list == nil || list.Len() == 0 {
		return nil
	}
	ids, err := json.Marshal(list.SelectedValues())
	if err != nil {
		return fmt.Errorf("submit: encode %s: %w", idsKey, err)
	}
	payload.appendValue(idsKey, string(ids))

	for index, entry := range list.Entries() {
		key := imagePrefix + "_" + strconv.Itoa(index)
		for _, img := range entry.Images {
			if img.IsUpload() {
				payload.appendFile(key, img.Name, img.Data)
			}
		}
	}
	return nil
}

// appendMainImage is tri-state: new binary, persisted reference, or the
// explicit clear sentinel.
func appendMainImage(payload *Payload, image *model.Image) {
	switch {
	case image != nil && image.IsUpload():
		payload.appendFile("image", image.Name, image.Data)
	case image != nil && image.IsPersisted():
		payload.appendValue("image", image.Ref)
	default:
		payload.appendValue("image", MainImageClear)
	}
}

func appendAdditionalImages(payload *Payload, images []model.Image) {
	uploads, refs := model.SplitImages(images)
	for _, img := range uploads {
		payload.appendFile(AdditionalImagesKey, img.Name, img.Data)
	}
	for _, ref := range refs {
		payload.appendValue(AdditionalImageURLs, ref)
	}
	if len(uploads) == 0 && len(refs) == 0 {
		payload.appendValue(ClearAdditionalKey, "true")
	}
}

// appendLegacyImages handles the single-list related/local fields: binaries
// under a repeated key, persisted references as one JSON-encoded URL list.
func appendLegacyImages(payload *Payload, images []model.Image, filesKey, urlsKey string) {
	uploads, refs := model.SplitImages(images)
	for _, img := range uploads {
		payload.appendFile(filesKey, img.Name, img.Data)
	}
	if len(refs) > 0 {
		encoded, err := json.Marshal(refs)
		if err != nil {
			return
		}
		payload.appendValue(urlsKey, string(encoded))
	}
}

func refValue(ref *model.Ref) string {
	if ref == nil {
		return ""
	}
	return ref.Value
}
