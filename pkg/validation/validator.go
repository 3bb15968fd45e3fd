package validation

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/files-manager/pkg/apperror"
)

var once sync.Once

// Init configures the global validator used by Gin's binding so errors
// carry JSON field names.
func Init() {
	once.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				return name
			})
			v.RegisterAlias("filekind", "oneof=folder file image")
		}
	})
}

// ToAppError converts a binding error into the public taxonomy. The first
// failing field, in struct order, is reported as missing.
func ToAppError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperror.MissingField(verrs[0].Field())
	}
	if errors.Is(err, io.EOF) {
		return apperror.BadRequest("Missing body")
	}
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) || errors.Is(err, io.ErrUnexpectedEOF) {
		return apperror.BadRequest("Invalid JSON")
	}
	return apperror.BadRequest("Invalid payload")
}
