// Package molecule provides the application-level visualization service. It
// sits between the HTTP/CLI interfaces and the domain toolkit and owns the
// session transitions.
package molecule

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	domainMol "github.com/turtacn/MolViz/internal/domain/molecule"
	"github.com/turtacn/MolViz/internal/domain/session"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MolViz/pkg/errors"
	mtypes "github.com/turtacn/MolViz/pkg/types/molecule"
)

// ExistenceChecker looks a SMILES string up in a compound database.
type ExistenceChecker interface {
	Exists(ctx context.Context, smiles string) mtypes.ExistenceResult
}

// ToxicityPredictor asks a remote model for a toxicity estimate.
type ToxicityPredictor interface {
	Predict(ctx context.Context, smiles string) mtypes.ToxicityResult
}

// EventPublisher receives an event for every successful visualize.
type EventPublisher interface {
	PublishVisualized(ctx context.Context, ev *session.VisualizedEvent) error
}

// Service defines the visualization operations.
type Service interface {
	// Visualize validates smiles, generates its coordinates and stores both in
	// the session. On any failure the session is left unchanged.
	Visualize(ctx context.Context, sessionID, smiles string) (*session.State, error)
	// LoadContext reads the session once for a render pass.
	LoadContext(ctx context.Context, sessionID, style string) (*session.RenderContext, error)
	// Render derives every output of a Loaded session.
	Render(ctx context.Context, rc *session.RenderContext) (*mtypes.MoleculeView, error)
	// Download returns the stored coordinate text verbatim.
	Download(ctx context.Context, sessionID string) (string, error)
	// StructurePNG depicts the session molecule.
	StructurePNG(ctx context.Context, sessionID string) ([]byte, error)

	Describe(ctx context.Context, smiles string) (*mtypes.DescribeResult, error)
	XYZ(ctx context.Context, smiles string) (string, error)
	Lookup(ctx context.Context, smiles string) (*mtypes.LookupResult, error)
	Toxicity(ctx context.Context, smiles string) (mtypes.ToxicityResult, error)
	Existence(ctx context.Context, smiles string) (mtypes.ExistenceResult, error)
}

// Config sizes the rendered outputs.
type Config struct {
	ImageWidth   int
	ImageHeight  int
	ViewerWidth  int
	ViewerHeight int
	ImageURL     string
	DownloadURL  string
	// EmbedTimeout bounds one coordinate generation; zero means no bound.
	EmbedTimeout time.Duration
}

// DefaultConfig matches the page layout.
func DefaultConfig() Config {
	return Config{
		ImageWidth:   300,
		ImageHeight:  300,
		ViewerWidth:  320,
		ViewerHeight: 300,
		ImageURL:     "/structure.png",
		DownloadURL:  "/molecule.xyz",
	}
}

// Option customises the service.
type Option func(*serviceImpl)

// WithPublisher sets the event publisher.
func WithPublisher(p EventPublisher) Option {
	return func(s *serviceImpl) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithMetrics records visualize results and embedding latency.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(s *serviceImpl) { s.metrics = m }
}

// WithConfig overrides DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(s *serviceImpl) { s.cfg = cfg }
}

type serviceImpl struct {
	toolkit   domainMol.Toolkit
	store     session.Store
	toxicity  ToxicityPredictor
	pubchem   ExistenceChecker
	publisher EventPublisher
	metrics   *prometheus.AppMetrics
	cfg       Config
	logger    logging.Logger
}

type nopPublisher struct{}

func (nopPublisher) PublishVisualized(context.Context, *session.VisualizedEvent) error { return nil }

// NewService creates the visualization service.
func NewService(
	toolkit domainMol.Toolkit,
	store session.Store,
	toxicity ToxicityPredictor,
	pubchem ExistenceChecker,
	logger logging.Logger,
	opts ...Option,
) Service {
	s := &serviceImpl{
		toolkit:   toolkit,
		store:     store,
		toxicity:  toxicity,
		pubchem:   pubchem,
		publisher: nopPublisher{},
		cfg:       DefaultConfig(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *serviceImpl) Visualize(ctx context.Context, sessionID, smiles string) (*session.State, error) {
	mol, err := s.toolkit.Parser.Parse(smiles)
	if err != nil {
		s.recordVisualize("invalid")
		return nil, err
	}

	xyz, conf, err := s.embed(ctx, mol)
	if err != nil {
		s.recordVisualize("embed_failed")
		s.logger.Warn("coordinate generation failed",
			logging.String("smiles", mol.SMILES),
			logging.Err(err))
		return nil, err
	}

	current, err := s.store.Get(ctx, sessionID)
	if err != nil {
		s.recordVisualize("error")
		return nil, err
	}
	next := current.Clone()
	if err := next.Load(mol.SMILES, xyz); err != nil {
		s.recordVisualize("error")
		return nil, err
	}
	if err := s.store.Save(ctx, sessionID, next); err != nil {
		s.recordVisualize("error")
		return nil, err
	}
	s.recordVisualize("ok")

	ev := session.NewVisualizedEvent(sessionID, mol.SMILES, mol.Formula(), conf.Molecule.NumAtoms(), mol.HeavyAtomCount())
	perr := s.publisher.PublishVisualized(ctx, ev)
	if s.metrics != nil {
		prometheus.RecordEvent(s.metrics, ev.Type, perr)
	}
	if perr != nil {
		s.logger.Warn("failed to publish event", logging.String("event_id", ev.ID), logging.Err(perr))
	}

	s.logger.Info("molecule visualized",
		logging.String("session_id", sessionID),
		logging.String("smiles", mol.SMILES),
		logging.Int("atoms", conf.Molecule.NumAtoms()))
	return next, nil
}

func (s *serviceImpl) embed(ctx context.Context, mol *domainMol.Molecule) (string, *domainMol.Conformer, error) {
	var timer *prometheus.Timer
	if s.metrics != nil {
		timer = prometheus.NewTimer(s.metrics.EmbeddingDuration.WithLabelValues())
	}
	if s.cfg.EmbedTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.EmbedTimeout)
		defer cancel()
	}
	conf, err := s.toolkit.Conformers.Embed(ctx, mol)
	if timer != nil {
		timer.ObserveDuration()
	}
	if err != nil {
		return "", nil, err
	}
	return domainMol.EncodeXYZ(conf, domainMol.DefaultXYZComment), conf, nil
}

func (s *serviceImpl) recordVisualize(result string) {
	if s.metrics != nil {
		prometheus.RecordVisualize(s.metrics, result)
	}
}

func (s *serviceImpl) LoadContext(ctx context.Context, sessionID, style string) (*session.RenderContext, error) {
	st, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	parsed, _ := domainMol.ParseStyle(style)
	return &session.RenderContext{SessionID: sessionID, State: *st, Style: string(parsed)}, nil
}

func (s *serviceImpl) Render(ctx context.Context, rc *session.RenderContext) (*mtypes.MoleculeView, error) {
	if rc == nil || !rc.Loaded() {
		return nil, errors.New(errors.CodeSessionNotLoaded, "no molecule loaded")
	}
	mol, err := s.toolkit.Parser.Parse(rc.State.SMILES)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeMoleculeParsingFailed, "stored molecule could not be parsed")
	}
	desc, err := s.toolkit.Descriptors.Compute(mol)
	if err != nil {
		return nil, err
	}
	tox, exists := s.lookups(ctx, rc.State.SMILES)

	style := domainMol.Style(rc.Style)
	if !style.Valid() {
		style = domainMol.DefaultStyle
	}
	return &mtypes.MoleculeView{
		SMILES:    rc.State.SMILES,
		Formula:   mol.Formula(),
		AtomCount: xyzAtomCount(rc.State.XYZ),
		XYZ:       rc.State.XYZ,
		Viewer: mtypes.ViewerConfig{
			Width:  s.cfg.ViewerWidth,
			Height: s.cfg.ViewerHeight,
			Style:  string(style),
			Label:  style.Label(),
			Spec:   style.Spec(),
		},
		Properties:  desc.Rows(),
		Lipinski:    domainMol.Lipinski(desc),
		Toxicity:    tox,
		PubChem:     exists,
		ImageURL:    s.cfg.ImageURL,
		DownloadURL: s.cfg.DownloadURL,
	}, nil
}

// lookups runs both remote calls concurrently. Each client reports failure
// in its record, so neither call can abort the other.
func (s *serviceImpl) lookups(ctx context.Context, smiles string) (mtypes.ToxicityResult, mtypes.ExistenceResult) {
	var (
		tox    mtypes.ToxicityResult
		exists mtypes.ExistenceResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tox = s.toxicity.Predict(gctx, smiles)
		return nil
	})
	g.Go(func() error {
		exists = s.pubchem.Exists(gctx, smiles)
		return nil
	})
	_ = g.Wait()
	return tox, exists
}

func xyzAtomCount(xyz string) int {
	rec, err := domainMol.ParseXYZ(xyz)
	if err != nil {
		return 0
	}
	return len(rec.Symbols)
}

func (s *serviceImpl) Download(ctx context.Context, sessionID string) (string, error) {
	st, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if !st.IsLoaded() {
		return "", errors.New(errors.CodeSessionNotLoaded, "no molecule loaded")
	}
	return st.XYZ, nil
}

func (s *serviceImpl) StructurePNG(ctx context.Context, sessionID string) ([]byte, error) {
	st, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !st.IsLoaded() {
		return nil, errors.New(errors.CodeSessionNotLoaded, "no molecule loaded")
	}
	mol, err := s.toolkit.Parser.Parse(st.SMILES)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeMoleculeParsingFailed, "stored molecule could not be parsed")
	}
	return s.toolkit.Renderer.RenderPNG(mol, s.cfg.ImageWidth, s.cfg.ImageHeight)
}

func (s *serviceImpl) Describe(_ context.Context, smiles string) (*mtypes.DescribeResult, error) {
	mol, err := s.toolkit.Parser.Parse(smiles)
	if err != nil {
		return nil, err
	}
	desc, err := s.toolkit.Descriptors.Compute(mol)
	if err != nil {
		return nil, err
	}
	return &mtypes.DescribeResult{
		SMILES:     mol.SMILES,
		Formula:    mol.Formula(),
		Properties: desc.Rows(),
		Lipinski:   domainMol.Lipinski(desc),
	}, nil
}

func (s *serviceImpl) XYZ(ctx context.Context, smiles string) (string, error) {
	mol, err := s.toolkit.Parser.Parse(smiles)
	if err != nil {
		return "", err
	}
	start := time.Now()
	xyz, _, err := s.embed(ctx, mol)
	if err != nil {
		return "", err
	}
	s.logger.Debug("coordinates generated", logging.String("smiles", mol.SMILES), logging.Duration("elapsed", time.Since(start)))
	return xyz, nil
}

func (s *serviceImpl) Lookup(ctx context.Context, smiles string) (*mtypes.LookupResult, error) {
	mol, err := s.toolkit.Parser.Parse(smiles)
	if err != nil {
		return nil, err
	}
	tox, exists := s.lookups(ctx, mol.SMILES)
	return &mtypes.LookupResult{SMILES: mol.SMILES, Toxicity: tox, PubChem: exists}, nil
}

func (s *serviceImpl) Toxicity(ctx context.Context, smiles string) (mtypes.ToxicityResult, error) {
	mol, err := s.toolkit.Parser.Parse(smiles)
	if err != nil {
		return mtypes.ToxicityResult{}, err
	}
	return s.toxicity.Predict(ctx, mol.SMILES), nil
}

func (s *serviceImpl) Existence(ctx context.Context, smiles string) (mtypes.ExistenceResult, error) {
	mol, err := s.toolkit.Parser.Parse(smiles)
	if err != nil {
		return mtypes.ExistenceResult{}, err
	}
	return s.pubchem.Exists(ctx, mol.SMILES), nil
}

//Personal.AI order the ending
