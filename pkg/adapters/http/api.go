package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// GenerateParamsFormat selects the /generate response body.
type GenerateParamsFormat string

const (
	FormatJSON GenerateParamsFormat = "json"
	FormatText GenerateParamsFormat = "text"
)

// GenerateParams defines parameters for Generate.
type GenerateParams struct {
	Format *GenerateParamsFormat `form:"format,omitempty" json:"format,omitempty"`
}

// MermaidParams defines parameters for Mermaid.
type MermaidParams struct {
	// Overlay marks unreachable and flagged nodes.
	Overlay *bool `form:"overlay,omitempty" json:"overlay,omitempty"`
}

// ListFunctionsParams defines parameters for ListFunctions.
type ListFunctionsParams struct {
	Category *string `form:"category,omitempty" json:"category,omitempty"`
}

// SubscribeEventsParams defines parameters for SubscribeEvents.
type SubscribeEventsParams struct {
	// Name restricts events to one script.
	Name *string `form:"name,omitempty" json:"name,omitempty"`
}

// ServerInterface represents all server handlers of openapi.yaml.
type ServerInterface interface {
	// (GET /health)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// (GET /info)
	GetInfo(w http.ResponseWriter, r *http.Request)
	// (POST /generate)
	Generate(w http.ResponseWriter, r *http.Request, params GenerateParams)
	// (POST /validate)
	Validate(w http.ResponseWriter, r *http.Request)
	// (POST /mermaid)
	Mermaid(w http.ResponseWriter, r *http.Request, params MermaidParams)
	// (GET /catalog)
	ListFunctions(w http.ResponseWriter, r *http.Request, params ListFunctionsParams)
	// (GET /catalog/{name})
	GetFunction(w http.ResponseWriter, r *http.Request, name string)
	// (GET /scripts)
	ListScripts(w http.ResponseWriter, r *http.Request)
	// (GET /scripts/{name})
	GetScript(w http.ResponseWriter, r *http.Request, name string)
	// (PUT /scripts/{name})
	SaveScript(w http.ResponseWriter, r *http.Request, name string)
	// (DELETE /scripts/{name})
	DeleteScript(w http.ResponseWriter, r *http.Request, name string)
	// (GET /scripts/{name}/code)
	GetScriptCode(w http.ResponseWriter, r *http.Request, name string)
	// (GET /events)
	SubscribeEvents(w http.ResponseWriter, r *http.Request, params SubscribeEventsParams)
}

// InvalidParamFormatError reports a parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// ServerInterfaceWrapper converts requests to handler arguments.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *ServerInterfaceWrapper) GetHealth(w http.ResponseWriter, r *http.Request) {
	siw.Handler.GetHealth(w, r)
}

func (siw *ServerInterfaceWrapper) GetInfo(w http.ResponseWriter, r *http.Request) {
	siw.Handler.GetInfo(w, r)
}

func (siw *ServerInterfaceWrapper) Generate(w http.ResponseWriter, r *http.Request) {
	var params GenerateParams
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &params.Format); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "format", Err: err})
		return
	}
	siw.Handler.Generate(w, r, params)
}

func (siw *ServerInterfaceWrapper) Validate(w http.ResponseWriter, r *http.Request) {
	siw.Handler.Validate(w, r)
}

func (siw *ServerInterfaceWrapper) Mermaid(w http.ResponseWriter, r *http.Request) {
	var params MermaidParams
	if err := runtime.BindQueryParameter("form", true, false, "overlay", r.URL.Query(), &params.Overlay); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "overlay", Err: err})
		return
	}
	siw.Handler.Mermaid(w, r, params)
}

func (siw *ServerInterfaceWrapper) ListFunctions(w http.ResponseWriter, r *http.Request) {
	var params ListFunctionsParams
	if err := runtime.BindQueryParameter("form", true, false, "category", r.URL.Query(), &params.Category); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "category", Err: err})
		return
	}
	siw.Handler.ListFunctions(w, r, params)
}

func (siw *ServerInterfaceWrapper) ListScripts(w http.ResponseWriter, r *http.Request) {
	siw.Handler.ListScripts(w, r)
}

func (siw *ServerInterfaceWrapper) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	var params SubscribeEventsParams
	if err := runtime.BindQueryParameter("form", true, false, "name", r.URL.Query(), &params.Name); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "name", Err: err})
		return
	}
	siw.Handler.SubscribeEvents(w, r, params)
}

// withName binds the {name} path parameter before calling next.
func (siw *ServerInterfaceWrapper) withName(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var name string
		err := runtime.BindStyledParameterWithOptions("simple", "name", chi.URLParam(r, "name"), &name,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
		if err != nil {
			siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "name", Err: err})
			return
		}
		next(w, r, name)
	}
}

// HandlerFromMux registers every route of si on r.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			writeError(w, http.StatusBadRequest, err)
		},
	}

	r.Get("/health", wrapper.GetHealth)
	r.Get("/info", wrapper.GetInfo)
	r.Post("/generate", wrapper.Generate)
	r.Post("/validate", wrapper.Validate)
	r.Post("/mermaid", wrapper.Mermaid)
	r.Get("/catalog", wrapper.ListFunctions)
	r.Get("/catalog/{name}", wrapper.withName(si.GetFunction))
	r.Get("/scripts", wrapper.ListScripts)
	r.Get("/scripts/{name}", wrapper.withName(si.GetScript))
	r.Put("/scripts/{name}", wrapper.withName(si.SaveScript))
	r.Delete("/scripts/{name}", wrapper.withName(si.DeleteScript))
	r.Get("/scripts/{name}/code", wrapper.withName(si.GetScriptCode))
	r.Get("/events", wrapper.SubscribeEvents)
	return r
}
