package molecule

import (
	"bytes"
	"context"
	stderrors "errors"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainMol "github.com/turtacn/MolViz/internal/domain/molecule"
	"github.com/turtacn/MolViz/internal/domain/session"
	"github.com/turtacn/MolViz/internal/infrastructure/chem/conformer"
	"github.com/turtacn/MolViz/internal/infrastructure/chem/depict"
	"github.com/turtacn/MolViz/internal/infrastructure/chem/descriptor"
	"github.com/turtacn/MolViz/internal/infrastructure/chem/smiles"
	"github.com/turtacn/MolViz/internal/testutil"
	"github.com/turtacn/MolViz/pkg/errors"
	mtypes "github.com/turtacn/MolViz/pkg/types/molecule"
)

type MockToxicity struct{ mock.Mock }

func (m *MockToxicity) Predict(ctx context.Context, s string) mtypes.ToxicityResult {
	return m.Called(ctx, s).Get(0).(mtypes.ToxicityResult)
}

type MockExistence struct{ mock.Mock }

func (m *MockExistence) Exists(ctx context.Context, s string) mtypes.ExistenceResult {
	return m.Called(ctx, s).Get(0).(mtypes.ExistenceResult)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) PublishVisualized(ctx context.Context, ev *session.VisualizedEvent) error {
	return m.Called(ctx, ev).Error(0)
}

type failingConformers struct{}

func (failingConformers) Embed(context.Context, *domainMol.Molecule) (*domainMol.Conformer, error) {
	return nil, errors.New(errors.CodeMoleculeConversionFailed, "Failed to generate 3D coordinates.")
}

type failingStore struct{ session.Store }

func (failingStore) Get(context.Context, string) (*session.State, error) {
	return nil, errors.New(errors.CodeSessionStore, "store down")
}

func testToolkit() domainMol.Toolkit {
	return domainMol.Toolkit{
		Parser:      smiles.NewParser(),
		Conformers:  conformer.NewGenerator(conformer.WithSeed(7)),
		Descriptors: descriptor.NewEngine(),
		Renderer:    depict.NewRenderer(depict.WithSeed(7)),
	}
}

type fixture struct {
	svc    Service
	store  *session.MemoryStore
	tox    *MockToxicity
	pc     *MockExistence
	pub    *MockPublisher
	logger *testutil.MockLogger
}

func newFixture(t *testing.T, toolkit domainMol.Toolkit) *fixture {
	t.Helper()
	f := &fixture{
		store:  session.NewMemoryStore(time.Hour),
		tox:    new(MockToxicity),
		pc:     new(MockExistence),
		pub:    new(MockPublisher),
		logger: testutil.NewMockLogger(),
	}
	f.svc = NewService(toolkit, f.store, f.tox, f.pc, f.logger, WithPublisher(f.pub))
	return f
}

func TestVisualize_Success(t *testing.T) {
	f := newFixture(t, testToolkit())
	ctx := context.Background()
	f.pub.On("PublishVisualized", mock.Anything, mock.MatchedBy(func(ev *session.VisualizedEvent) bool {
		return ev.SessionID == "s1" && ev.SMILES == "Oc1ccccc1" && ev.AtomCount == 13 && ev.HeavyAtoms == 7
	})).Return(nil).Once()

	st, err := f.svc.Visualize(ctx, "s1", "Oc1ccccc1")
	require.NoError(t, err)
	assert.Equal(t, "Oc1ccccc1", st.SMILES)
	assert.True(t, strings.HasPrefix(st.XYZ, "13\nGenerated by MolViz\n"))

	stored, err := f.store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, st, stored)
	f.pub.AssertExpectations(t)
	assert.True(t, f.logger.HasMessage("info", "molecule visualized"))
}

func TestVisualize_InvalidKeepsSession(t *testing.T) {
	f := newFixture(t, testToolkit())
	ctx := context.Background()
	f.pub.On("PublishVisualized", mock.Anything, mock.Anything).Return(nil)

	before, err := f.svc.Visualize(ctx, "s1", "CCO")
	require.NoError(t, err)

	_, err = f.svc.Visualize(ctx, "s1", "not a molecule")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeMoleculeInvalidSMILES))
	assert.Equal(t, smiles.InvalidMessage, err.(*errors.AppError).Message)

	after, err := f.store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	f.pub.AssertNumberOfCalls(t, "PublishVisualized", 1)
}

func TestVisualize_InvalidOnEmptySession(t *testing.T) {
	f := newFixture(t, testToolkit())
	ctx := context.Background()

	_, err := f.svc.Visualize(ctx, "fresh", "C1CC")
	require.Error(t, err)

	st, err := f.store.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.False(t, st.IsLoaded())

	_, err = f.svc.Download(ctx, "fresh")
	assert.True(t, errors.IsCode(err, errors.CodeSessionNotLoaded))
}

func TestVisualize_EmbeddingFailureKeepsSession(t *testing.T) {
	tk := testToolkit()
	f := newFixture(t, tk)
	ctx := context.Background()
	f.pub.On("PublishVisualized", mock.Anything, mock.Anything).Return(nil)
	before, err := f.svc.Visualize(ctx, "s1", "CCO")
	require.NoError(t, err)

	tk.Conformers = failingConformers{}
	broken := NewService(tk, f.store, f.tox, f.pc, f.logger)
	_, err = broken.Visualize(ctx, "s1", "CCCC")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeMoleculeConversionFailed))

	after, err := f.store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.True(t, f.logger.HasMessage("warn", "coordinate generation failed"))
}

func TestVisualize_PublishFailureIgnored(t *testing.T) {
	f := newFixture(t, testToolkit())
	f.pub.On("PublishVisualized", mock.Anything, mock.Anything).Return(stderrors.New("broker down"))

	st, err := f.svc.Visualize(context.Background(), "s1", "C")
	require.NoError(t, err)
	assert.True(t, st.IsLoaded())
	assert.True(t, f.logger.HasMessage("warn", "failed to publish event"))
}

func TestVisualize_StoreFailure(t *testing.T) {
	f := newFixture(t, testToolkit())
	svc := NewService(testToolkit(), failingStore{}, f.tox, f.pc, f.logger)
	_, err := svc.Visualize(context.Background(), "s1", "C")
	assert.True(t, errors.IsCode(err, errors.CodeSessionStore))
}

func TestRender_Loaded(t *testing.T) {
	f := newFixture(t, testToolkit())
	ctx := context.Background()
	f.pub.On("PublishVisualized", mock.Anything, mock.Anything).Return(nil)
	f.tox.On("Predict", mock.Anything, "Oc1ccccc1").Return(mtypes.ToxicityResult{
		LD50: "317", ToxicityClass: mtypes.NotAvailable, Prediction: "toxic",
	}).Once()
	f.pc.On("Exists", mock.Anything, "Oc1ccccc1").Return(mtypes.ExistenceResult{
		Found: true, CIDs: []int64{996}, Message: "Compound found in PubChem.",
	}).Once()

	_, err := f.svc.Visualize(ctx, "s1", "Oc1ccccc1")
	require.NoError(t, err)

	rc, err := f.svc.LoadContext(ctx, "s1", "Stick")
	require.NoError(t, err)
	require.True(t, rc.Loaded())
	assert.Equal(t, "stick", rc.Style)

	view, err := f.svc.Render(ctx, rc)
	require.NoError(t, err)
	assert.Equal(t, "C6H6O", view.Formula)
	assert.Equal(t, 13, view.AtomCount)
	assert.Equal(t, rc.State.XYZ, view.XYZ)
	require.Len(t, view.Properties, 9)
	assert.Equal(t, "94.1", view.Properties[0].Display())
	assert.True(t, view.Lipinski.Pass)
	assert.Equal(t, "317", view.Toxicity.LD50)
	assert.True(t, view.PubChem.Found)
	assert.Equal(t, "stick", view.Viewer.Style)
	assert.Equal(t, "Stick", view.Viewer.Label)
	assert.JSONEq(t, `{"stick":{}}`, string(view.Viewer.Spec))
	assert.Equal(t, 320, view.Viewer.Width)
	assert.Equal(t, 300, view.Viewer.Height)
	assert.Equal(t, "/molecule.xyz", view.DownloadURL)
	f.tox.AssertExpectations(t)
	f.pc.AssertExpectations(t)
}

func TestRender_StyleDoesNotChangeData(t *testing.T) {
	f := newFixture(t, testToolkit())
	ctx := context.Background()
	f.pub.On("PublishVisualized", mock.Anything, mock.Anything).Return(nil)
	f.tox.On("Predict", mock.Anything, mock.Anything).Return(mtypes.ToxicityResult{Error: "toxicity endpoint is not configured"})
	f.pc.On("Exists", mock.Anything, mock.Anything).Return(mtypes.ExistenceResult{Message: "Compound not found in PubChem."})

	_, err := f.svc.Visualize(ctx, "s1", "CC(=O)Oc1ccccc1C(=O)O")
	require.NoError(t, err)

	var views []*mtypes.MoleculeView
	for _, style := range []string{"ball_and_stick", "stick", "spacefill", "bogus"} {
		rc, err := f.svc.LoadContext(ctx, "s1", style)
		require.NoError(t, err)
		v, err := f.svc.Render(ctx, rc)
		require.NoError(t, err)
		views = append(views, v)
	}
	for _, v := range views[1:] {
		assert.Equal(t, views[0].XYZ, v.XYZ)
		assert.Equal(t, views[0].Properties, v.Properties)
		assert.Equal(t, views[0].Lipinski, v.Lipinski)
	}
	assert.Equal(t, "ball_and_stick", views[3].Viewer.Style)
}

func TestRender_Empty(t *testing.T) {
	f := newFixture(t, testToolkit())
	rc, err := f.svc.LoadContext(context.Background(), "nobody", "")
	require.NoError(t, err)
	assert.False(t, rc.Loaded())

	_, err = f.svc.Render(context.Background(), rc)
	assert.True(t, errors.IsCode(err, errors.CodeSessionNotLoaded))
}

func TestDownload_Verbatim(t *testing.T) {
	f := newFixture(t, testToolkit())
	ctx := context.Background()
	f.pub.On("PublishVisualized", mock.Anything, mock.Anything).Return(nil)

	st, err := f.svc.Visualize(ctx, "s1", "CCO")
	require.NoError(t, err)
	text, err := f.svc.Download(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, st.XYZ, text)
	assert.False(t, strings.HasSuffix(text, "\n"))
}

func TestStructurePNG(t *testing.T) {
	f := newFixture(t, testToolkit())
	ctx := context.Background()
	f.pub.On("PublishVisualized", mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.StructurePNG(ctx, "s1")
	assert.True(t, errors.IsCode(err, errors.CodeSessionNotLoaded))

	_, err = f.svc.Visualize(ctx, "s1", "c1ccccc1O")
	require.NoError(t, err)
	data, err := f.svc.StructurePNG(ctx, "s1")
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestDescribe(t *testing.T) {
	f := newFixture(t, testToolkit())
	res, err := f.svc.Describe(context.Background(), "Oc1ccccc1")
	require.NoError(t, err)
	require.Len(t, res.Properties, 9)
	assert.Equal(t, "Molecular Weight (g/mol)", res.Properties[0].Name)
	assert.Equal(t, float64(1), res.Properties[2].Value)
	assert.Equal(t, float64(0), res.Properties[3].Value)
	assert.True(t, res.Lipinski.Pass)

	_, err = f.svc.Describe(context.Background(), "not a molecule")
	assert.True(t, errors.IsCode(err, errors.CodeMoleculeInvalidSMILES))
}

func TestXYZ(t *testing.T) {
	f := newFixture(t, testToolkit())
	text, err := f.svc.XYZ(context.Background(), "CCO")
	require.NoError(t, err)
	rec, err := domainMol.ParseXYZ(text)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "C", "O", "H", "H", "H", "H", "H", "H"}, rec.Symbols)
}

func TestLookup(t *testing.T) {
	f := newFixture(t, testToolkit())
	ctx := context.Background()
	f.tox.On("Predict", mock.Anything, "CCO").Return(mtypes.ToxicityResult{Error: "request failed: refused"})
	f.pc.On("Exists", mock.Anything, "CCO").Return(mtypes.ExistenceResult{Message: "PubChem returned HTTP 500"})

	res, err := f.svc.Lookup(ctx, "CCO")
	require.NoError(t, err)
	assert.True(t, res.Toxicity.Failed())
	assert.False(t, res.PubChem.Found)
	assert.Contains(t, res.PubChem.Message, "500")

	tox, err := f.svc.Toxicity(ctx, "CCO")
	require.NoError(t, err)
	assert.True(t, tox.Failed())

	ex, err := f.svc.Existence(ctx, "CCO")
	require.NoError(t, err)
	assert.False(t, ex.Found)

	_, err = f.svc.Lookup(ctx, "((")
	assert.Error(t, err)
	_, err = f.svc.Toxicity(ctx, "((")
	assert.Error(t, err)
	_, err = f.svc.Existence(ctx, "((")
	assert.Error(t, err)
}

//Personal.AI order the ending
