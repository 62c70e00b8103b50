package study

import (
	"fmt"
	"strings"

	"github.com/jkisse/pandapower/internal/network"
)

// Watch names one network cell to track over a run.
type Watch struct {
	Element  string
	Variable string
	Index    int
}

func (w Watch) Label() string {
	return fmt.Sprintf("%s_%s_%d", w.Element, w.Variable, w.Index)
}

// Watches derives the default watch list from the study's controllers: the
// first written cell of every column-writing injector.
func (s *Study) Watches() []Watch {
	var watches []Watch
	for _, cc := range s.cfg.Controllers {
		if strings.HasPrefix(cc.Variable, "object.") {
			continue
		}
		watches = append(watches, Watch{
			Element:  cc.Element,
			Variable: cc.Variable,
			Index:    cc.Indices[0],
		})
	}
	return watches
}

// Recorder collects the per-step values of the watched cells, keyed by the
// watch label. An unreadable cell records zero so every series stays aligned
// with the step count.
type Recorder struct {
	watches []Watch
	series  map[string][]float64
}

func NewRecorder(watches ...Watch) *Recorder {
	return &Recorder{
		watches: watches,
		series:  make(map[string][]float64),
	}
}

func (r *Recorder) OnStep(net *network.Network, step, iterations int) {
	for _, w := range r.watches {
		v, err := net.Value(w.Element, w.Variable, w.Index)
		if err != nil {
			v = 0
		}
		r.series[w.Label()] = append(r.series[w.Label()], v)
	}
}

func (r *Recorder) Series() map[string][]float64 { return r.series }
