package mockapi

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// errorBody mirrors the API's failure envelope, whose message is itself a
// quoted string: {"error":{"message":"\"Not Found\"","status_code":404}}.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

type successBody struct {
	Success errorDetail `json:"success"`
}

func newErrorBody(status int, message string) errorBody {
	return errorBody{Error: errorDetail{Message: strconv.Quote(message), StatusCode: status}}
}

func success(c *fiber.Ctx, message string) error {
	return c.JSON(successBody{Success: errorDetail{Message: message, StatusCode: fiber.StatusOK}})
}

// errorHandler renders every handler error in the API envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return c.Status(code).JSON(newErrorBody(code, message))
}

func notFound(what string) error {
	return fiber.NewError(fiber.StatusNotFound, what+" Not Found")
}

func statusText(code int) string {
	return strconv.Itoa(code)
}
