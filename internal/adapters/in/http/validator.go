package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// requestValidator plugs go-playground/validator into echo's Context.Validate. Field
// names in messages are the JSON names.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(coordinatesComplete, createOrderRequest{}, addZoneRequest{})
	return &requestValidator{validate: v}
}

func (v *requestValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			problems = append(problems, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		problems = append(problems, fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(problems, "; "))
}

// coordinatesComplete rejects a coordinate given without its pair.
func coordinatesComplete(sl validator.StructLevel) {
	check := func(lat, lng *float64, latName, lngName string) {
		if (lat == nil) != (lng == nil) {
			if lat == nil {
				sl.ReportError(lat, latName, latName, "required_with", lngName)
			} else {
				sl.ReportError(lng, lngName, lngName, "required_with", latName)
			}
		}
	}

	switch req := sl.Current().Interface().(type) {
	case createOrderRequest:
		check(req.PickupLat, req.PickupLng, "pickup_lat", "pickup_lng")
		check(req.DropLat, req.DropLng, "drop_lat", "drop_lng")
	case addZoneRequest:
		check(req.Lat, req.Lng, "lat", "lng")
	}
}
