package autorouter

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/danghamo/lecturer-service/pkg/logger"
)

// Middleware represents middleware function signature
type Middleware func(http.Handler) http.Handler

// RegistrationOptions configures how handlers are registered
type RegistrationOptions struct {
	Prefix       string       // URL prefix (e.g., "/api/v1/")
	MethodPrefix string       // Method prefix (e.g., "lecturer." -> "lecturer.Get")
	Middleware   []Middleware // Middleware chain to apply
	Logger       *logger.Logger
}

// HandlerInfo describes one registered route
type HandlerInfo struct {
	URLPath    string
	MethodName string
	HasAuth    bool
}

// AutoRouter registers handler struct methods on a mux using reflection.
// Every exported func(http.ResponseWriter, *http.Request) method becomes
// <Prefix><MethodPrefix><MethodName>; methods named Handle* are skipped.
type AutoRouter struct {
	mux     *http.ServeMux
	options RegistrationOptions
	logger  *logger.Logger
	routes  []HandlerInfo
}

// NewAutoRouter creates a new auto router
func NewAutoRouter(mux *http.ServeMux, options RegistrationOptions) *AutoRouter {
	log := options.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &AutoRouter{
		mux:     mux,
		options: options,
		logger:  log.WithComponent("autorouter"),
	}
}

// RegisterHandlers registers all methods of handler that match the handler signature
func (ar *AutoRouter) RegisterHandlers(handler interface{}) error {
	return ar.register(handler, ar.options.Middleware, false)
}

// RegisterHandlersWithAuth registers handlers behind authMiddleware, which
// runs before any configured middleware
func (ar *AutoRouter) RegisterHandlersWithAuth(handler interface{}, authMiddleware Middleware) error {
	chain := append([]Middleware{authMiddleware}, ar.options.Middleware...)
	return ar.register(handler, chain, true)
}

// Routes returns every route registered so far
func (ar *AutoRouter) Routes() []HandlerInfo {
	return append([]HandlerInfo(nil), ar.routes...)
}

func (ar *AutoRouter) register(handler interface{}, chain []Middleware, hasAuth bool) error {
	methods, err := ar.handlerMethods(handler)
	if err != nil {
		return err
	}

	for _, name := range methods {
		method := reflect.ValueOf(handler).MethodByName(name)
		urlPath := ar.buildURLPath(name)

		ar.mux.Handle(urlPath, applyMiddleware(createHandlerFunc(method), chain))
		ar.routes = append(ar.routes, HandlerInfo{URLPath: urlPath, MethodName: name, HasAuth: hasAuth})

		ar.logger.Debug("Auto-registered handler",
			zap.String("path", urlPath),
			zap.String("method", name),
			zap.Bool("auth", hasAuth))
	}

	return nil
}

// GetRegisteredHandlers returns the routes RegisterHandlers would create for handler
func (ar *AutoRouter) GetRegisteredHandlers(handler interface{}) []HandlerInfo {
	methods, err := ar.handlerMethods(handler)
	if err != nil {
		return nil
	}

	handlers := make([]HandlerInfo, 0, len(methods))
	for _, name := range methods {
		handlers = append(handlers, HandlerInfo{
			URLPath:    ar.buildURLPath(name),
			MethodName: name,
			HasAuth:    len(ar.options.Middleware) > 0,
		})
	}
	return handlers
}

// handlerMethods lists the method names eligible for registration
func (ar *AutoRouter) handlerMethods(handler interface{}) ([]string, error) {
	handlerType := reflect.TypeOf(handler)
	if handlerType == nil {
		return nil, fmt.Errorf("handler must be a struct or pointer to struct")
	}

	structType := handlerType
	if structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("handler must be a struct or pointer to struct")
	}

	handlerValue := reflect.ValueOf(handler)
	var names []string
	for i := 0; i < handlerValue.NumMethod(); i++ {
		name := handlerType.Method(i).Name

		// Handle* methods are the implementations behind the exported wrappers
		if strings.HasPrefix(name, "Handle") {
			continue
		}
		if !isValidHandlerFunc(handlerValue.Method(i)) {
			continue
		}
		names = append(names, name)
	}

	return names, nil
}

// isValidHandlerFunc checks if a method matches
// func(http.ResponseWriter, *http.Request) [error]
func isValidHandlerFunc(method reflect.Value) bool {
	methodType := method.Type()

	if methodType.Kind() != reflect.Func || methodType.NumIn() != 2 || methodType.NumOut() > 1 {
		return false
	}

	if methodType.NumOut() == 1 {
		errorInterface := reflect.TypeOf((*error)(nil)).Elem()
		if !methodType.Out(0).Implements(errorInterface) {
			return false
		}
	}

	responseWriterType := reflect.TypeOf((*http.ResponseWriter)(nil)).Elem()
	if !methodType.In(0).Implements(responseWriterType) {
		return false
	}

	return methodType.In(1) == reflect.TypeOf((*http.Request)(nil))
}

// buildURLPath constructs the URL path from method name
func (ar *AutoRouter) buildURLPath(methodName string) string {
	if ar.options.MethodPrefix != "" {
		return ar.options.Prefix + ar.options.MethodPrefix + methodName
	}
	return ar.options.Prefix + strings.ToLower(methodName)
}

// createHandlerFunc creates an http.HandlerFunc from a reflect.Value
func createHandlerFunc(method reflect.Value) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results := method.Call([]reflect.Value{
			reflect.ValueOf(w),
			reflect.ValueOf(r),
		})

		if len(results) > 0 && !results[0].IsNil() {
			if err, ok := results[0].Interface().(error); ok {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// applyMiddleware wraps handler so chain[0] runs first
func applyMiddleware(handler http.Handler, chain []Middleware) http.Handler {
	for i := len(chain) - 1; i >= 0; i-- {
		handler = chain[i](handler)
	}
	return handler
}
