package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/shelf/internal/model"
)

// RegisterValidators adds the content_type and library_status binding tags.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("content_type", func(fl validator.FieldLevel) bool {
		return model.ContentType(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("library_status", func(fl validator.FieldLevel) bool {
		s := model.LibraryStatus(fl.Field().String())
		return s.ValidFor(model.ContentMovie) || s.ValidFor(model.ContentBook)
	})
}
