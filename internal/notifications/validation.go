package notifications

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/goliatone/go-realtime-notifications/pkg/domain"
)

func newValidator() *validator.Validate {
	v := validator.New()
	// registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("notification_type", func(fl validator.FieldLevel) bool {
		return domain.NotificationType(fl.Field().String()).Valid()
	})
	return v
}

func (s *Service) validate(input any) error {
	if err := s.validator.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
