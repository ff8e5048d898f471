package routes

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Aditya0Kumar/trackr-sub000/config"
	"github.com/Aditya0Kumar/trackr-sub000/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type enumValidator struct {
	tag   string
	valid func(string) bool
}

var enumValidators = []enumValidator{
	{"task_status", func(s string) bool { return models.TaskStatus(s).Valid() }},
	{"task_priority", func(s string) bool { return models.TaskPriority(s).Valid() }},
	{"member_role", func(s string) bool { return models.MemberRole(s).Valid() }},
	{"attendance_status", func(s string) bool { return models.AttendanceStatus(s).Valid() }},
}

var registerOnce sync.Once

// RegisterValidators adds the enum validators used by request binding tags. A failed
// registration would silently drop an enum check, so it stops the process instead.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			config.Logger.Errorw("binding engine is not go-playground/validator, enum tags are unchecked")
			panic("unexpected binding validator engine")
		}
		if err := registerEnums(v, enumValidators); err != nil {
			config.Logger.Errorw("register binding validators failed", "error", err)
			panic(err)
		}
	})
}

func registerEnums(v *validator.Validate, enums []enumValidator) error {
	var errs []error
	for _, e := range enums {
		valid := e.valid
		err := v.RegisterValidation(e.tag, func(fl validator.FieldLevel) bool {
			return valid(fl.Field().String())
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.tag, err))
		}
	}
	return errors.Join(errs...)
}
