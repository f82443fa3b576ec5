package httpapi

import (
	"errors"
	"log"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/walkd/internal/walk"
	"github.com/i474232898/walkd/internal/weather"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var walkFieldMessages = map[string]string{
	"duration": "duration must be a non-negative integer",
	"distance": "distance must be a non-negative number",
	"steps":    "steps must be a non-negative integer",
}

// validationMessage turns validator output into a short field-level message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := walkFieldMessages[verrs[0].Field()]; ok {
			return msg
		}
		return verrs[0].Field() + " is invalid"
	}
	return "invalid request"
}

const (
	serviceName = "walkd"

	msgRunning     = "산책산책 API 🌿"
	msgDeleted     = "삭제되었습니다"
	msgNoRecords   = "기록이 없습니다"
	msgNoSuchWalk  = "기록을 찾을 수 없습니다"
	msgServerError = "internal server error"

	// WeatherSourceHeader tells clients whether the snapshot is live or the fallback.
	WeatherSourceHeader = "X-Weather-Source"
)

// ErrorHandler renders every error as {"error": true, "message": ...}.
// Errors that are not *fiber.Error are logged and reported as a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := msgServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	} else {
		log.Printf("ERROR: %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, walks *walk.Service, forecasts *weather.Service) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": msgRunning,
			"status":  "running",
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := walks.Ping(c.UserContext()); err != nil {
			log.Printf("ERROR: health check: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":  "unavailable",
				"service": serviceName,
			})
		}
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": serviceName,
		})
	})

	api := app.Group("/api")

	api.Get("/weather", func(c *fiber.Ctx) error {
		q, err := parseWeatherQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}

		snapshot, source := forecasts.Current(c.UserContext(), q)
		c.Set(WeatherSourceHeader, string(source))
		return c.JSON(snapshot)
	})

	api.Post("/walks", func(c *fiber.Ctx) error {
		var req createWalkRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "request body must be JSON with integer duration, number distance and integer steps")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, validationMessage(err))
		}

		rec, err := walks.Create(c.UserContext(), req.toInput())
		if err != nil {
			if errors.Is(err, walk.ErrInvalid) {
				return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
			}
			return err
		}
		return c.JSON(rec)
	})

	api.Get("/walks", func(c *fiber.Ctx) error {
		records, err := walks.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(records)
	})

	api.Get("/walks/recent", func(c *fiber.Ctx) error {
		rec, err := walks.MostRecent(c.UserContext())
		if err != nil {
			if errors.Is(err, walk.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, msgNoRecords)
			}
			return err
		}
		return c.JSON(rec)
	})

	api.Delete("/walks/:id", func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "id must be an integer")
		}

		if err := walks.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, walk.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, msgNoSuchWalk)
			}
			return err
		}
		return c.JSON(fiber.Map{
			"message": msgDeleted,
			"id":      id,
		})
	})
}

// createWalkRequest is the POST /api/walks body. Pointers make a missing
// field distinguishable from an explicit zero.
type createWalkRequest struct {
	Duration *int     `json:"duration" validate:"required,gte=0"`
	Distance *float64 `json:"distance" validate:"required,gte=0"`
	Steps    *int     `json:"steps" validate:"required,gte=0"`
}

func (r createWalkRequest) toInput() walk.CreateInput {
	return walk.CreateInput{
		Duration: *r.Duration,
		Distance: *r.Distance,
		Steps:    *r.Steps,
	}
}

// parseWeatherQuery reads lat/lng, each defaulting independently. With neither
// given, a city parameter selects a geocoded lookup instead. Only unparsable
// numbers are rejected; range checks happen in the weather service.
func parseWeatherQuery(c *fiber.Ctx) (weather.Query, error) {
	latStr := c.Query("lat")
	lngStr := c.Query("lng")

	if latStr == "" && lngStr == "" {
		if city := c.Query("city"); city != "" {
			return weather.Query{City: city, Country: c.Query("country")}, nil
		}
	}

	coords := weather.DefaultCoordinates()
	if latStr != "" {
		v, err := parseCoordinate(latStr)
		if err != nil {
			return weather.Query{}, errors.New("lat must be a number")
		}
		coords.Lat = v
	}
	if lngStr != "" {
		v, err := parseCoordinate(lngStr)
		if err != nil {
			return weather.Query{}, errors.New("lng must be a number")
		}
		coords.Lon = v
	}

	return weather.Query{Coordinates: &coords}, nil
}

// parseCoordinate accepts anything that parses as a float, including
// overflowing values that become ±Inf.
func parseCoordinate(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return v, nil
}
