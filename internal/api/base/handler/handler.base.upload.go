package basehdl

import (
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/gofiber/fiber/v3"
	"github.com/valyala/fasthttp"

	"videotube/internal/common"
	"videotube/internal/global"
	"videotube/internal/media"
)

// Upload is a multipart file opened for streaming to the media store.
type Upload struct {
	Asset media.Asset
	file  multipart.File
}

// Close releases the underlying file. Safe on a nil Upload.
func (u *Upload) Close() {
	if u != nil && u.file != nil {
		_ = u.file.Close()
	}
}

// FormUpload opens the multipart file field as an asset of kind and checks it against the
// configured limits. A missing optional file returns (nil, nil).
func FormUpload(c fiber.Ctx, field string, kind media.Kind, required bool) (*Upload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, fasthttp.ErrMissingFile) || errors.Is(err, fasthttp.ErrNoMultipartForm) {
			if required {
				return nil, common.NewValidationError(fmt.Sprintf("%s file is required", field), FieldError{
					Field: field, Rule: "required", Message: fmt.Sprintf("%s file is required", field),
				})
			}
			return nil, nil
		}
		return nil, common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err.Error())
	}

	file, err := header.Open()
	if err != nil {
		return nil, common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err.Error())
	}

	upload := &Upload{
		Asset: media.Asset{
			Reader:      file,
			Size:        header.Size,
			ContentType: header.Header.Get(fiber.HeaderContentType),
			Filename:    header.Filename,
			Kind:        kind,
		},
		file: file,
	}
	if err := global.MediaLimits.Validate(field, upload.Asset); err != nil {
		upload.Close()
		return nil, err
	}
	return upload, nil
}

// AssetOf returns the asset of u, or nil when u is nil.
func AssetOf(u *Upload) *media.Asset {
	if u == nil {
		return nil
	}
	return &u.Asset
}
