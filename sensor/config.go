package sensor

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sgostarter/libinterpolation/spline"
)

const (
	DefaultName              = "Interpolation"
	DefaultBoundaryCondition = "not-a-knot"
)

type Config struct {
	Name              string    `yaml:"name" json:"name"`
	SourceEntity      string    `yaml:"source_entity" json:"source_entity" validate:"required,entity_id"`
	XValues           []float64 `yaml:"x_values" json:"x_values" validate:"min=2,strictly_increasing"`
	YValues           []float64 `yaml:"y_values" json:"y_values" validate:"min=2"`
	UniqueID          string    `yaml:"unique_id,omitempty" json:"unique_id,omitempty"`
	UnitOfMeasurement string    `yaml:"unit_of_measurement,omitempty" json:"unit_of_measurement,omitempty"`
	BoundaryCondition string    `yaml:"boundary_condition" json:"boundary_condition" validate:"boundary_condition"`
	// ClampSlopes holds the start and end slopes used by the clamped
	// boundary condition.
	ClampSlopes []float64 `yaml:"clamp_slopes,omitempty" json:"clamp_slopes,omitempty" validate:"omitempty,len=2"`
}

var (
	configValidate *validator.Validate

	// <domain>.<object_id>: lower case letters, digits and single inner
	// underscores on both sides.
	entityIDRegexp = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*\.[a-z0-9]+(_[a-z0-9]+)*$`)
)

func init() {
	configValidate = validator.New()

	_ = configValidate.RegisterValidation("entity_id", validateEntityID)
	_ = configValidate.RegisterValidation("strictly_increasing", validateStrictlyIncreasing)
	_ = configValidate.RegisterValidation("boundary_condition", validateBoundaryCondition)
}

func validateEntityID(fl validator.FieldLevel) bool {
	return ValidEntityID(fl.Field().String())
}

func ValidEntityID(entityID string) bool {
	return entityIDRegexp.MatchString(entityID)
}

func validateStrictlyIncreasing(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice {
		return false
	}

	for i := 1; i < field.Len(); i++ {
		if !(field.Index(i).Float() > field.Index(i-1).Float()) {
			return false
		}
	}

	return true
}

func validateBoundaryCondition(fl validator.FieldLevel) bool {
	_, err := spline.ParseBoundaryPolicy(fl.Field().String())

	return err == nil
}

// WithDefaults returns a copy with the name and boundary condition filled in
// and the source entity id lower cased.
func (cfg Config) WithDefaults() Config {
	cfg.SourceEntity = strings.ToLower(cfg.SourceEntity)

	if cfg.Name == "" {
		cfg.Name = DefaultName
	}

	if cfg.BoundaryCondition == "" {
		cfg.BoundaryCondition = DefaultBoundaryCondition
	}

	cfg.XValues = append([]float64(nil), cfg.XValues...)
	cfg.YValues = append([]float64(nil), cfg.YValues...)
	cfg.ClampSlopes = append([]float64(nil), cfg.ClampSlopes...)

	return cfg
}

// Validate checks the config after defaults are applied. The returned error
// wraps ErrInvalidConfig and, where one applies, the matching spline error.
func (cfg Config) Validate() error {
	cfg = cfg.WithDefaults()

	if len(cfg.XValues) != len(cfg.YValues) {
		return fmt.Errorf("%w: %w: x_values has %d entries, y_values has %d", ErrInvalidConfig,
			spline.ErrLengthMismatch, len(cfg.XValues), len(cfg.YValues))
	}

	if err := configValidate.Struct(cfg); err != nil {
		return translateValidationError(err)
	}

	if err := spline.CheckPoints(cfg.XValues, cfg.YValues); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if len(cfg.ClampSlopes) > 0 && cfg.BoundaryCondition != spline.Clamped.String() {
		return fmt.Errorf("%w: clamp_slopes needs boundary_condition %q, got %q", ErrInvalidConfig,
			spline.Clamped.String(), cfg.BoundaryCondition)
	}

	return nil
}

func (cfg Config) Policy() (spline.BoundaryPolicy, error) {
	return spline.ParseBoundaryPolicy(cfg.WithDefaults().BoundaryCondition)
}

func (cfg Config) SplineOptions() []spline.Option {
	if len(cfg.ClampSlopes) != 2 {
		return nil
	}

	return []spline.Option{spline.ClampSlopesOption(cfg.ClampSlopes[0], cfg.ClampSlopes[1])}
}

func translateValidationError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	fe := ves[0]
	field := yamlFieldName(fe.StructField())

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", ErrInvalidConfig, field)
	case "entity_id":
		return fmt.Errorf("%w: %w: %s %q, expected <domain>.<object_id>", ErrInvalidConfig, ErrInvalidEntityID,
			field, fe.Value())
	case "min":
		return fmt.Errorf("%w: %w: %s needs at least %s entries", ErrInvalidConfig,
			spline.ErrInsufficientPoints, field, fe.Param())
	case "strictly_increasing":
		return fmt.Errorf("%w: %w: %s must be strictly increasing", ErrInvalidConfig,
			spline.ErrNonMonotonicX, field)
	case "boundary_condition":
		return fmt.Errorf("%w: %w: %q, expected one of %s", ErrInvalidConfig, spline.ErrUnknownBoundaryPolicy,
			fe.Value(), strings.Join(spline.BoundaryPolicyNames(), ", "))
	case "len":
		return fmt.Errorf("%w: %s needs exactly %s entries", ErrInvalidConfig, field, fe.Param())
	}

	return fmt.Errorf("%w: %s failed %s", ErrInvalidConfig, field, fe.Tag())
}

func yamlFieldName(structField string) string {
	f, ok := reflect.TypeOf(Config{}).FieldByName(structField)
	if !ok {
		return structField
	}

	name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
	if name == "" {
		return structField
	}

	return name
}
