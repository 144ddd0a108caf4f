package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError représente une erreur de validation
type ValidationError struct {
	Field   string
	Message string
}

// Error implémente l'interface error
func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// Validator renvoie l'instance partagée, qui nomme les champs d'après leur tag json
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct valide une requête et renvoie la première erreur sous forme de ValidationError
func ValidateStruct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return ValidationError{Field: "requête", Message: err.Error()}
	}

	fe := fieldErrs[0]
	return ValidationError{Field: fe.Field(), Message: translate(fe)}
}

func translate(fe validator.FieldError) string {
	param := fe.Param()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return "ce champ est requis"
	case "max":
		if isString {
			return fmt.Sprintf("%s caractères maximum", param)
		}
		return fmt.Sprintf("doit être inférieur ou égal à %s", param)
	case "min":
		if isString {
			return fmt.Sprintf("%s caractères minimum", param)
		}
		return fmt.Sprintf("doit être supérieur ou égal à %s", param)
	case "gte":
		return fmt.Sprintf("doit être supérieur ou égal à %s", param)
	case "lte":
		return fmt.Sprintf("doit être inférieur ou égal à %s", param)
	case "hexcolor":
		return "doit être une couleur hexadécimale (#RRGGBB)"
	case "oneof":
		return fmt.Sprintf("doit être l'une des valeurs: %s", param)
	}
	return fmt.Sprintf("valeur invalide (%s)", fe.Tag())
}
