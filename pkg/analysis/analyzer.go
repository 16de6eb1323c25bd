package analysis

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lucas-albers-lz4/imgtype/pkg/classify"
	"github.com/lucas-albers-lz4/imgtype/pkg/hierarchy"
	"github.com/lucas-albers-lz4/imgtype/pkg/image"
	"github.com/lucas-albers-lz4/imgtype/pkg/log"
	"github.com/lucas-albers-lz4/imgtype/pkg/tadm"
)

// Analyzer classifies components of a deployment model.
type Analyzer struct {
	classifier  *classify.Classifier
	concurrency int
}

// NewAnalyzer creates an Analyzer. A concurrency below one uses runtime.NumCPU().
// A nil classifier uses the default identifier tables.
func NewAnalyzer(classifier *classify.Classifier, concurrency int) *Analyzer {
	if classifier == nil {
		classifier = classify.NewClassifier(classify.DefaultIdentifiers())
	}
	if concurrency < 1 {
		concurrency = runtime.NumCPU()
	}
	return &Analyzer{classifier: classifier, concurrency: concurrency}
}

// plan is the pure, per-component outcome of parsing and classification.
type plan struct {
	component  *tadm.Component
	artifact   *tadm.Artifact
	ref        *image.Reference
	category   classify.Category
	fileURI    string
	skipReason *Error
}

// Analyze classifies the components with the given ids and updates the model.
//
// Ids not present in the model are ignored and repeated ids are analysed once.
// Components without a usable image reference or with an underivable URI are
// skipped and reported in Result.Skipped. A model without BaseType ends the batch
// with a MissingBaseType error; the model may then hold the changes made for
// earlier components.
//
// The model lock is held for the whole call.
func (a *Analyzer) Analyze(ctx context.Context, m *tadm.DeploymentModel, componentIDs []string) (*Result, error) {
	if len(componentIDs) == 0 {
		return nil, &Error{Kind: KindNoComponentsRequested, Err: ErrNoComponentsRequested}
	}

	m.Lock()
	defer m.Unlock()

	components := selectComponents(m, componentIDs)
	log.Debug("Starting analysis", "requested", len(componentIDs), "found", len(components))

	plans := make([]plan, len(components))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, c := range components {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			plans[i] = a.prepare(c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Analyzed: []ComponentResult{}}
	for _, p := range plans {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if p.skipReason != nil {
			log.Warn("Skipping component", "component", p.component.ID, "identifier", p.skipReason.Identifier,
				"kind", string(p.skipReason.Kind), "error", p.skipReason.Err)
			result.Skipped = append(result.Skipped, newSkip(p.skipReason))
			continue
		}
		cr, err := apply(m, p)
		if err != nil {
			return nil, err
		}
		result.Analyzed = append(result.Analyzed, cr)
	}

	log.Info("Analysis finished", "analyzed", len(result.Analyzed), "skipped", len(result.Skipped))
	return result, nil
}

// selectComponents resolves ids to components in request order, dropping unknown
// and repeated ids.
func selectComponents(m *tadm.DeploymentModel, ids []string) []*tadm.Component {
	seen := make(map[string]struct{}, len(ids))
	out := make([]*tadm.Component, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		c, ok := m.ComponentByID(id)
		if !ok {
			log.Debug("Requested component not in model", "component", id)
			continue
		}
		out = append(out, c)
	}
	return out
}

// prepare parses, classifies and derives the URI for c without touching the model.
func (a *Analyzer) prepare(c *tadm.Component) plan {
	p := plan{component: c}

	artifact, ok := c.DockerImageArtifact()
	if !ok {
		p.skipReason = &Error{Kind: KindMissingImageReference, ComponentID: c.ID,
			Err: fmt.Errorf("%w: no %s artifact", image.ErrMissingImageReference, tadm.DockerImageArtifactType)}
		return p
	}
	if artifact.Name == nil {
		p.skipReason = &Error{Kind: KindMissingImageReference, ComponentID: c.ID,
			Err: fmt.Errorf("%w: %s artifact has no name", image.ErrMissingImageReference, tadm.DockerImageArtifactType)}
		return p
	}
	p.artifact = artifact

	ref, err := image.ParseReference(*artifact.Name)
	if err != nil {
		p.skipReason = &Error{Kind: KindMissingImageReference, ComponentID: c.ID, Err: err}
		return p
	}
	p.ref = ref
	p.category = a.classifier.Classify(ref.Identifier)

	if image.NeedsFileURI(artifact.FileURI) {
		uri, err := image.DeriveFileURI(*artifact.Name)
		if err != nil {
			p.skipReason = &Error{Kind: KindOf(err), ComponentID: c.ID, Identifier: ref.Identifier, Err: err}
			return p
		}
		p.fileURI = uri
	}

	log.Debug("Classified component", "component", c.ID, "identifier", ref.Identifier, "category", p.category.String())
	return p
}

// apply performs the model mutation for a prepared component.
func apply(m *tadm.DeploymentModel, p plan) (ComponentResult, error) {
	id := p.component.ID
	categoryType, err := hierarchy.GetOrCreateCategoryType(m, p.category)
	if err != nil {
		return ComponentResult{}, wrapMutationError(err, id, p.ref.Identifier)
	}
	change, err := hierarchy.ApplySpecificType(m, p.component, categoryType, p.ref.Identifier)
	if err != nil {
		return ComponentResult{}, wrapMutationError(err, id, p.ref.Identifier)
	}
	if p.fileURI != "" {
		p.artifact.FileURI = p.fileURI
	}

	log.Debug("Updated component type", "component", id, "identifier", p.ref.Identifier,
		"category", p.category.String(), "change", string(change.Kind), "type", change.TypeName)
	return ComponentResult{
		ComponentID: id,
		Image:       p.ref.Original,
		Identifier:  p.ref.Identifier,
		Category:    p.category.String(),
		FileURI:     p.fileURI,
		Change:      change,
	}, nil
}

func wrapMutationError(err error, componentID, identifier string) error {
	kind := KindInternal
	if errors.Is(err, hierarchy.ErrMissingBaseType) {
		kind = KindMissingBaseType
	}
	return &Error{Kind: kind, ComponentID: componentID, Identifier: identifier, Err: err}
}
