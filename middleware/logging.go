package middleware

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Enrico-Fabbri/fobserver/args"
	"github.com/Enrico-Fabbri/fobserver/request"
	"github.com/Enrico-Fabbri/fobserver/response"
	"github.com/Enrico-Fabbri/fobserver/router"
	"github.com/charmbracelet/lipgloss"
)

var errNoResponse = errors.New("handler returned no response")

// outcome is the error to log for a handler result. A nil response without an
// error is logged as a failure; the result itself is passed on unchanged.
func outcome(resp *response.Response, err error) error {
	if err == nil && resp == nil {
		return errNoResponse
	}
	return err
}

// LoggingMiddleware provides basic logging without colors.
func LoggingMiddleware(next router.Handler) router.Handler {
	return router.HandlerFunc(func(r *request.Request, a *args.Args) (*response.Response, error) {
		now := time.Now()
		resp, err := next.ServeRequest(r, a)
		if failure := outcome(resp, err); failure != nil {
			log.Printf("%s %s %s failed in %s: %v\n", r.Method, r.Path, r.Version, time.Since(now), failure)
			return resp, err
		}
		log.Printf("%s %s %s %d in %s\n", r.Method, r.Path, r.Version, int(resp.Status), time.Since(now))
		return resp, nil
	})
}

// LoggingMiddlewareColored provides colored logging.
func LoggingMiddlewareColored(next router.Handler) router.Handler {
	methodStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true).Background(lipgloss.Color("12")).Width(8).Align(lipgloss.Center)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	return router.HandlerFunc(func(r *request.Request, a *args.Args) (*response.Response, error) {
		now := time.Now()
		resp, err := next.ServeRequest(r, a)

		styledMethod := methodStyle.Render(r.Method.String())
		if failure := outcome(resp, err); failure != nil {
			log.Printf("%s %s %s in %s: %v\n", styledMethod, r.Path, errorStyle.Render("ERR"), time.Since(now), failure)
			return resp, err
		}

		// create styled status code
		statusCode := int(resp.Status)
		styledStatus := getStatusCodeStyle(statusCode).Render(fmt.Sprintf("%d", statusCode))

		log.Printf("%s %s %s in %s\n", styledMethod, r.Path, styledStatus, time.Since(now))
		return resp, nil
	})
}

// getStatusCodeStyle returns a lipgloss style for HTTP status codes
func getStatusCodeStyle(statusCode int) lipgloss.Style {
	switch {
	case statusCode >= 200 && statusCode < 300:
		// 2xx Success - Green
		return lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	case statusCode >= 300 && statusCode < 400:
		// 3xx Redirection - Yellow
		return lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	case statusCode >= 400 && statusCode < 500:
		// 4xx Client Error - Orange/Red
		return lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	case statusCode >= 500:
		// 5xx Server Error - Bright Red
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	default:
		// 1xx and anything else - White
		return lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	}
}
