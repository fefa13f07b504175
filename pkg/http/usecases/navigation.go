package usecases

import (
	"context"
	"sync"

	"github.com/cargoroute/guidance/pkg"
	"github.com/cargoroute/guidance/pkg/cache"
	"github.com/cargoroute/guidance/pkg/datastructure"
	"github.com/cargoroute/guidance/pkg/routing"
	"github.com/cargoroute/guidance/pkg/session"
	"github.com/cargoroute/guidance/pkg/util"
	"go.uber.org/zap"
)

// NavigationService glues route acquisition to the single navigation
// session this engine instance hosts. It remembers the last acquired
// alternatives so the select endpoint can refer to them by index.
type NavigationService struct {
	log      *zap.Logger
	acquirer *routing.Acquirer
	sess     *session.Session

	mu           sync.Mutex
	alternatives []datastructure.Route
	mode         pkg.TravelMode
}

func NewNavigationService(log *zap.Logger, acquirer *routing.Acquirer,
	sess *session.Session) *NavigationService {
	return &NavigationService{
		log:      log,
		acquirer: acquirer,
		sess:     sess,
	}
}

func (ns *NavigationService) AcquireRoutes(ctx context.Context, origin, destination cache.Waypoint,
	mode pkg.TravelMode, alternatives bool) ([]datastructure.Route, error) {
	routes, err := ns.acquirer.AcquireRoutes(ctx, origin, destination, mode, alternatives)
	if err != nil {
		return nil, err
	}

	ns.mu.Lock()
	ns.alternatives = routes
	ns.mode = mode
	ns.mu.Unlock()
	return routes, nil
}

// SelectRoute picks one of the alternatives from the last acquisition.
func (ns *NavigationService) SelectRoute(index int) error {
	ns.mu.Lock()
	if index < 0 || index >= len(ns.alternatives) {
		n := len(ns.alternatives)
		ns.mu.Unlock()
		return util.WrapErrorf(nil, util.ErrBadParamInput,
			"route index %d out of range, %d alternatives available", index, n)
	}
	route := ns.alternatives[index]
	mode := ns.mode
	ns.mu.Unlock()

	return ns.sess.SelectRoute(&route, mode)
}

func (ns *NavigationService) StartNavigation() error {
	return ns.sess.Start()
}

func (ns *NavigationService) StopNavigation() {
	ns.sess.Stop()
}

func (ns *NavigationService) AcknowledgeArrival() {
	ns.sess.Acknowledge()
}

func (ns *NavigationService) SetFollow(on bool) {
	ns.sess.SetFollow(on)
}

func (ns *NavigationService) SessionState() string {
	return ns.sess.State().String()
}
