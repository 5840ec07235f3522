package main

import (
	"log"
	"sync"

	"github.com/chazu/vumesh/pkg/engine"
	"github.com/chazu/vumesh/pkg/kernel"
	"github.com/chazu/vumesh/pkg/kernel/sdfx"
	"github.com/chazu/vumesh/pkg/mesh"
	"github.com/chazu/vumesh/pkg/store"
	"github.com/chazu/vumesh/pkg/vu"
	"github.com/pkg/errors"
)

var (
	ErrNoStore  = errors.New("no snapshot store configured")
	ErrNoResult = errors.New("nothing evaluated yet")
)

// App ties the recipe engine to the sdfx kernel and an optional snapshot
// store. The graph of the last successful evaluation is kept for Save.
type App struct {
	engine *engine.Engine
	store  *store.Store

	mu   sync.Mutex
	last *vu.Graph
}

// EvalErrorData is a JSON-serializable eval error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of one evaluation.
type EvalResult struct {
	Mesh   *kernel.Mesh    `json:"mesh"`
	Stage  string          `json:"stage"`
	Nodes  int             `json:"nodes"`
	Faces  int             `json:"faces"`
	Errors []EvalErrorData `json:"errors"`
}

// NewApp creates an App on the sdfx kernel. st may be nil, in which case
// Save and Load fail with ErrNoStore.
func NewApp(st *store.Store, opts ...mesh.Option) *App {
	return &App{
		engine: engine.NewEngine(sdfx.New(), opts...),
		store:  st,
	}
}

func newResult() EvalResult {
	return EvalResult{
		Mesh:   &kernel.Mesh{Vertices: []float32{}, Normals: []float32{}, Indices: []uint32{}},
		Errors: []EvalErrorData{},
	}
}

func fatal(result EvalResult, err error) EvalResult {
	result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
	return result
}

// Evaluate runs a meshing recipe and returns the interior faces of the
// resulting graph as a triangle mesh, along with any errors.
func (a *App) Evaluate(source string) EvalResult {
	result := newResult()

	p, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		log.Printf("Evaluate fatal error: %v", err)
		return fatal(result, err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	a.mu.Lock()
	a.last = p.Graph()
	a.mu.Unlock()

	result.Mesh = p.Mesh("recipe")
	result.Stage = p.Stage().String()
	result.Nodes = p.Graph().NodeCount()
	result.Faces = interiorFaces(p.Graph())
	return result
}

func interiorFaces(g *vu.Graph) int {
	n := 0
	for _, f := range g.CollectFaces(vu.MaskExterior) {
		if f.MaskOr == 0 && f.Area > 0 {
			n++
		}
	}
	return n
}

// Save stores the graph of the last evaluation under name.
func (a *App) Save(name string) error {
	if a.store == nil {
		return ErrNoStore
	}
	a.mu.Lock()
	g := a.last
	a.mu.Unlock()
	if g == nil {
		return ErrNoResult
	}
	if err := a.store.SaveGraph(name, g); err != nil {
		log.Printf("Save %q: %v", name, err)
		return err
	}
	return nil
}

// Load rebuilds a stored graph and returns it as a result. The stage of a
// stored graph is not recorded, so Stage reads "stored".
func (a *App) Load(name string) EvalResult {
	result := newResult()
	if a.store == nil {
		return fatal(result, ErrNoStore)
	}
	g, err := a.store.LoadGraph(name)
	if err != nil {
		log.Printf("Load %q: %v", name, err)
		return fatal(result, err)
	}

	a.mu.Lock()
	a.last = g
	a.mu.Unlock()

	result.Mesh = kernel.MeshFromGraph(g, name)
	result.Stage = "stored"
	result.Nodes = g.NodeCount()
	result.Faces = interiorFaces(g)
	return result
}

// Snapshots lists the names in the store.
func (a *App) Snapshots() ([]string, error) {
	if a.store == nil {
		return nil, ErrNoStore
	}
	return a.store.List()
}
