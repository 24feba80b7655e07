package service

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yankaics/OnlineJudge/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// 에러 필드명은 JSON 태그 기준
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		return models.Language(fl.Field().Int()).Valid()
	})

	return v
}

var tagMessages = map[string]string{
	"required": "is required",
	"gt":       "must be greater than 0",
	"language": "unsupported language",
}

// ValidateStruct validate 태그 검사 → *ValidationError
func ValidateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		msg, ok := tagMessages[fe.Tag()]
		if !ok {
			msg = "is invalid"
		}
		out.Fields[fe.Field()] = msg
	}
	return out
}

// DecodeError JSON 디코딩 실패를 필드 오류로 변환
func DecodeError(err error) *ValidationError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &ValidationError{Fields: map[string]string{
			typeErr.Field: "must be " + typeErr.Type.String(),
		}}
	}
	return &ValidationError{Fields: map[string]string{"body": "malformed request body"}}
}
