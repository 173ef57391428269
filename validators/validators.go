package validators

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"learnit/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// Struct runs the `validate` tags of req and returns one message per failing field
func Struct(req interface{}) map[string]string {
	errors := make(map[string]string)

	err := validate.Struct(req)
	if err == nil {
		return errors
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["request"] = "Invalid request!"
		return errors
	}

	for _, fe := range verrs {
		errors[fieldKey(fe)] = message(fe)
	}
	return errors
}

// fieldKey drops the top-level struct name so nested fields read like "questions[0].text"
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required!", field)
	case "email":
		return "Invalid email!"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long!", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("%s must contain at least %s items!", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s!", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not exceed %s characters!", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s!", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s!", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s!", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s!", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL!", field)
	case "excludesall":
		return fmt.Sprintf("%s contains invalid characters!", field)
	}
	return fmt.Sprintf("%s is invalid!", field)
}

// normalizer is implemented by requests that trim or default fields before validation
type normalizer interface {
	Normalize()
}

func normalize(req interface{}) {
	if n, ok := req.(normalizer); ok {
		n.Normalize()
	}
}

// Body parses the JSON body into a new T, validates it and stores it in c.Locals(key).
// check, when not nil, runs after the tag rules.
func Body[T any](key string, check func(c *fiber.Ctx, req *T, errors map[string]string)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(T)
		if err := c.BodyParser(req); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		normalize(req)
		errors := Struct(req)
		if check != nil {
			check(c, req, errors)
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(key, req)
		return c.Next()
	}
}

// Query is Body for query strings
func Query[T any](key string, check func(c *fiber.Ctx, req *T, errors map[string]string)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(T)
		if err := c.QueryParser(req); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		normalize(req)
		errors := Struct(req)
		if check != nil {
			check(c, req, errors)
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(key, req)
		return c.Next()
	}
}

// Validated returns the request a validator stored under key
func Validated[T any](c *fiber.Ctx, key string) (*T, bool) {
	req, ok := c.Locals(key).(*T)
	return req, ok
}

// ParamID validates that each named route param is a positive integer and stores it
// in c.Locals under the same name.
func ParamID(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, name := range names {
			raw := strings.TrimSpace(c.Params(name))
			if raw == "" {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, fmt.Sprintf("%s is required!", name), nil)
			}
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, fmt.Sprintf("Invalid %s!", name), nil)
			}
			c.Locals(name, uint(id))
		}
		return c.Next()
	}
}

// ID returns a route id stored by ParamID
func ID(c *fiber.Ctx, name string) uint {
	id, _ := c.Locals(name).(uint)
	return id
}

// PageQuery is the shared paging query
type PageQuery struct {
	Page  int `query:"page" validate:"omitempty,min=1"`
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Normalize fills defaults and returns the row offset
func (p *PageQuery) Normalize() int {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	return (p.Page - 1) * p.Limit
}

// Page validates ?page=&limit= and stores a *PageQuery under "pagination"
func Page() fiber.Handler {
	return Query[PageQuery]("pagination", nil)
}

// Paging returns the normalized page, limit and offset stored by Page
func Paging(c *fiber.Ctx) (page, limit, offset int) {
	p, ok := Validated[PageQuery](c, "pagination")
	if !ok {
		p = &PageQuery{}
	}
	offset = p.Normalize()
	return p.Page, p.Limit, offset
}
