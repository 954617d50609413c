package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// LoggingMiddleware возвращает middleware для логирования запросов
func LoggingMiddleware(logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Передаем управление следующему обработчику
		err := c.Next()

		status := c.Response().StatusCode()
		logger.Printf("%s %s%s%s %s%s%s %s%d%s %v",
			c.IP(),
			getMethodColor(c.Method()), c.Method(), "\033[0m",
			"\033[37m", c.Path(), "\033[0m",
			getStatusColor(status), status, "\033[0m",
			time.Since(start),
		)

		return err
	}
}

func getStatusColor(status int) string {
	switch {
	case status >= 500:
		return "\033[31m" // Красный
	case status >= 400:
		return "\033[33m" // Желтый
	case status >= 300:
		return "\033[36m" // Голубой
	case status >= 200:
		return "\033[32m" // Зеленый
	default:
		return "\033[37m" // Белый
	}
}

func getMethodColor(method string) string {
	switch method {
	case "GET":
		return "\033[34m" // Синий
	case "POST":
		return "\033[33m" // Желтый
	case "PUT":
		return "\033[36m" // Голубой
	case "DELETE":
		return "\033[31m" // Красный
	default:
		return "\033[37m" // Белый
	}
}
