package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/cargoroute/guidance/pkg/util"
	"go.uber.org/zap"
)

type envelope map[string]interface{}

func (api *navigationAPI) writeJSON(w http.ResponseWriter, status int, data envelope,
	headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(js)
	return nil
}

func (api *navigationAPI) errorResponseWrite(w http.ResponseWriter, r *http.Request,
	status int, message string) {
	env := envelope{"error": map[string]string{
		"code":    http.StatusText(status),
		"message": message,
	}}
	if err := api.writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (api *navigationAPI) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponseWrite(w, r, http.StatusBadRequest, err.Error())
}

func (api *navigationAPI) NotFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponseWrite(w, r, http.StatusNotFound, err.Error())
}

func (api *navigationAPI) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.log.Error("internal error", zap.Error(err), zap.String("path", r.URL.Path))
	api.errorResponseWrite(w, r, http.StatusInternalServerError, util.MessageInternalServerError)
}

func (api *navigationAPI) ServiceUnavailableResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponseWrite(w, r, http.StatusServiceUnavailable, err.Error())
}

func (api *navigationAPI) ConflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponseWrite(w, r, http.StatusConflict, err.Error())
}

// getStatusCode maps the error taxonomy onto HTTP statuses.
func (api *navigationAPI) getStatusCode(w http.ResponseWriter, r *http.Request, err error) {
	code := util.ErrCode(err)
	switch {
	case errors.Is(code, util.ErrBadParamInput):
		api.BadRequestResponse(w, r, err)
	case errors.Is(code, util.ErrNoRouteFound):
		api.NotFoundResponse(w, r, err)
	case errors.Is(code, util.ErrProviderUnavailable),
		errors.Is(code, util.ErrTrackingUnavailable):
		api.ServiceUnavailableResponse(w, r, err)
	case errors.Is(code, util.ErrConflict):
		api.ConflictResponse(w, r, err)
	default:
		api.ServerErrorResponse(w, r, err)
	}
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, e := range validatorErrs {
			translatedErr := fmt.Errorf("%s", e.Translate(trans))
			errs = append(errs, translatedErr)
		}
	}
	return errs
}
