package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	"github.com/cargoroute/guidance/pkg"
	"github.com/cargoroute/guidance/pkg/cache"
	"github.com/cargoroute/guidance/pkg/geo"
	helper "github.com/cargoroute/guidance/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type navigationAPI struct {
	navigationService NavigationService
	log               *zap.Logger
}

func New(navigationService NavigationService, log *zap.Logger) *navigationAPI {
	return &navigationAPI{
		navigationService: navigationService,
		log:               log,
	}
}

func (api *navigationAPI) Routes(group *helper.RouteGroup) {
	group.GET("/routes", api.acquireRoutes)
	group.POST("/session/route", api.selectRoute)
	group.POST("/session/start", api.startNavigation)
	group.POST("/session/stop", api.stopNavigation)
	group.POST("/session/ack", api.acknowledgeArrival)
	group.POST("/session/follow", api.setFollow)
	group.GET("/session", api.sessionState)
}

func (api *navigationAPI) acquireRoutes(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request acquireRoutesRequest
		err     error
	)

	query := r.URL.Query()

	request.OriginAddress = query.Get("origin")
	if query.Get("origin_lat") != "" {
		request.OriginLat, err = strconv.ParseFloat(query.Get("origin_lat"), 64)
		if err != nil {
			api.BadRequestResponse(w, r, errors.New("origin_lat must be a valid float"))
			return
		}
		request.OriginLon, err = strconv.ParseFloat(query.Get("origin_lon"), 64)
		if err != nil {
			api.BadRequestResponse(w, r, errors.New("origin_lon must be a valid float"))
			return
		}
		request.hasOriginCoord = true
	}
	request.DestinationAddress = query.Get("destination")
	if query.Get("destination_lat") != "" {
		request.DestinationLat, err = strconv.ParseFloat(query.Get("destination_lat"), 64)
		if err != nil {
			api.BadRequestResponse(w, r, errors.New("destination_lat must be a valid float"))
			return
		}
		request.DestinationLon, err = strconv.ParseFloat(query.Get("destination_lon"), 64)
		if err != nil {
			api.BadRequestResponse(w, r, errors.New("destination_lon must be a valid float"))
			return
		}
		request.hasDestinationCoord = true
	}
	request.Mode = query.Get("mode")
	request.Alternatives = query.Get("alternatives") == "true"

	if !request.hasOriginCoord && request.OriginAddress == "" {
		api.BadRequestResponse(w, r, errors.New("origin or origin_lat/origin_lon is required"))
		return
	}
	if !request.hasDestinationCoord && request.DestinationAddress == "" {
		api.BadRequestResponse(w, r, errors.New("destination or destination_lat/destination_lon is required"))
		return
	}

	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return
	}

	origin := cache.AddressWaypoint(request.OriginAddress)
	if request.hasOriginCoord {
		origin = cache.CoordinateWaypoint(geo.NewCoordinate(request.OriginLat, request.OriginLon))
	}
	destination := cache.AddressWaypoint(request.DestinationAddress)
	if request.hasDestinationCoord {
		destination = cache.CoordinateWaypoint(geo.NewCoordinate(request.DestinationLat, request.DestinationLon))
	}

	routes, err := api.navigationService.AcquireRoutes(r.Context(), origin, destination,
		pkg.ParseTravelMode(request.Mode), request.Alternatives)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewRoutesResponse(routes)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *navigationAPI) selectRoute(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request selectRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	if err := api.navigationService.SelectRoute(request.Index); err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	api.writeSessionState(w, r)
}

func (api *navigationAPI) startNavigation(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := api.navigationService.StartNavigation(); err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	api.writeSessionState(w, r)
}

func (api *navigationAPI) stopNavigation(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	api.navigationService.StopNavigation()
	api.writeSessionState(w, r)
}

func (api *navigationAPI) acknowledgeArrival(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	api.navigationService.AcknowledgeArrival()
	api.writeSessionState(w, r)
}

func (api *navigationAPI) setFollow(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request followRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	api.navigationService.SetFollow(request.Follow)
	api.writeSessionState(w, r)
}

func (api *navigationAPI) sessionState(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	api.writeSessionState(w, r)
}

func (api *navigationAPI) writeSessionState(w http.ResponseWriter, r *http.Request) {
	state := sessionStateResponse{State: api.navigationService.SessionState()}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": state}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
