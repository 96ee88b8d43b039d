package httpapi

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/i474232898/weather-locations/internal/weather"
)

const serviceName = "weather-locations"

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, logger *zap.Logger) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": serviceName,
		})
	})

	app.Post("/auth/login", func(c *fiber.Ctx) error {
		var req loginRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		res, err := service.Login(c.UserContext(), req.Email)
		if err != nil {
			return err
		}

		userStatus, message := "existing", "Welcome back!"
		if res.Created {
			userStatus, message = "new", "Welcome! Your account has been created."
		}
		return c.JSON(fiber.Map{
			"status":      "success",
			"email":       res.User.Email,
			"user_id":     res.User.ID,
			"user_status": userStatus,
			"message":     message,
		})
	})

	app.Get("/get-locations/:email", func(c *fiber.Ctx) error {
		email, err := url.PathUnescape(c.Params("email"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid email")
		}

		locations, err := service.ListLocations(c.UserContext(), email)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"status":    "success",
			"locations": locations,
		})
	})

	app.Post("/search-location", func(c *fiber.Ctx) error {
		var req searchRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		place, err := service.SearchLocation(c.UserContext(), req.Location)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"status":   "success",
			"location": place,
		})
	})

	app.Post("/save-location", func(c *fiber.Ctx) error {
		var req saveRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		saved, err := service.SaveLocation(c.UserContext(), weather.SaveRequest{
			Email:      req.Email,
			Name:       req.Location.Name,
			Latitude:   *req.Location.Latitude,
			Longitude:  *req.Location.Longitude,
			CustomName: req.CustomName,
		})
		if err != nil {
			return err
		}

		logger.Info("saved location",
			zap.Int64("user_location_id", saved.ID),
			zap.Int64("location_id", saved.LocationID))
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":  "success",
			"message": "Added " + saved.DisplayName() + " to your saved locations",
			"location": weather.LocationSummary{
				ID:        saved.ID,
				Name:      saved.DisplayName(),
				Latitude:  saved.Location.Latitude,
				Longitude: saved.Location.Longitude,
				CreatedAt: saved.AddedAt,
			},
		})
	})

	app.Post("/remove-location", func(c *fiber.Ctx) error {
		var req removeRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		name, err := service.RemoveLocation(c.UserContext(), req.Email, req.LocationID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Removed " + name + " from saved locations",
		})
	})

	wx := app.Group("/weather")

	wx.Get("/nyc-forecast", func(c *fiber.Ctx) error {
		data, err := service.NYCForecast(c.UserContext())
		if err != nil {
			return err
		}
		return success(c, data)
	})

	wx.Post("/current-location-hourly", func(c *fiber.Ctx) error {
		var req coordinatesRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		data, err := service.CurrentLocationHourly(c.UserContext(), *req.Latitude, *req.Longitude)
		if err != nil {
			return err
		}
		return success(c, data)
	})

	wx.Post("/location-forecast", func(c *fiber.Ctx) error {
		var req coordinatesRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		data, err := service.LocationForecast(c.UserContext(), *req.Latitude, *req.Longitude)
		if err != nil {
			return err
		}
		return success(c, data)
	})

	wx.Post("/history", func(c *fiber.Ctx) error {
		var req historyRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		data, err := service.MonthlyHistory(c.UserContext(), req.Email, req.UserLocationID, req.Year, time.Month(req.Month))
		if err != nil {
			return err
		}
		return success(c, data)
	})
}

func success(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}
