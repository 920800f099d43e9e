package basket

import (
	"github.com/MarcGrol/basketservice/lib/mylog"
	"github.com/MarcGrol/basketservice/lib/mypublisher"
	"github.com/MarcGrol/basketservice/lib/mytime"
)

type service struct {
	basketStore BasketStorer
	publisher   mypublisher.Publisher
	nower       mytime.Nower
	logger      mylog.Logger
	instr       *instrumentation
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(store BasketStorer, publisher mypublisher.Publisher, nower mytime.Nower, logger mylog.Logger) (*service, error) {
	instr, err := newInstrumentation()
	if err != nil {
		return nil, err
	}

	return &service{
		basketStore: store,
		publisher:   publisher,
		nower:       nower,
		logger:      logger,
		instr:       instr,
	}, nil
}
