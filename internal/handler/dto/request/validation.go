package request

import (
	"sync"

	"hotel-booking/internal/domain/room"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidations adds the custom binding rules to gin's validator.
// Safe to call more than once.
func RegisterValidations() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		err = v.RegisterValidation("roomcategory", validateRoomCategory)
	})
	return err
}

func validateRoomCategory(fl validator.FieldLevel) bool {
	return room.Category(fl.Field().String()).IsValid()
}
