package matcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"navi-be/internal/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// State of a match run. Stopped and Failed are only reachable from Judging
// and Ranking respectively; precondition failures never leave Idle.
type State string

const (
	StateIdle      State = "idle"
	StateRanking   State = "ranking"
	StateJudging   State = "judging"
	StateCompleted State = "completed"
	StateStopped   State = "stopped"
	StateFailed    State = "failed"
)

type EventType string

const (
	EventState    EventType = "state"
	EventProgress EventType = "progress"
	EventMatch    EventType = "match"
)

// Event is one progress notification of a run. Match is set only for
// EventMatch; Message carries human-readable detail for terminal states.
type Event struct {
	Type      EventType `json:"type"`
	State     State     `json:"state"`
	Processed int       `json:"processed"`
	Total     int       `json:"total"`
	Match     *Match    `json:"match,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// Match is one accepted pairing, ordered among its siblings by descending
// relevance score.
type Match struct {
	DocumentID       string   `json:"document_id"`
	Similarity       float64  `json:"similarity"`
	SimilarityReason string   `json:"similarity_reason"`
	Judgment         Judgment `json:"judgment"`
}

// Config tunes one run.
type Config struct {
	TopK           int
	ScoreThreshold float64
	// Pause between candidates so a resource-constrained local inference
	// endpoint is not hammered.
	CandidateDelay time.Duration
	// Judgment calls in flight at once. Keep at 1 unless the endpoint is
	// known to tolerate concurrent load.
	Concurrency int
}

func DefaultConfig() Config {
	return Config{
		TopK:           20,
		ScoreThreshold: 5.0,
		CandidateDelay: 500 * time.Millisecond,
		Concurrency:    1,
	}
}

// RunInput is the persona side of a run: the serialized profile for
// prompting plus its embedding for ranking.
type RunInput struct {
	PersonaID   string
	ProfileText string
	Location    string
	Embedding   []float32
}

// Pipeline owns all transient state of one find-matches run. Create one per
// run; it is not reusable.
type Pipeline struct {
	judge *Judge
	cfg   Config
	log   logger.ILogger

	mu        sync.Mutex
	state     State
	processed int
	total     int
	accepted  []*Match
}

func NewPipeline(judge *Judge, cfg Config, log logger.ILogger) *Pipeline {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultConfig().TopK
	}
	if cfg.ScoreThreshold <= 0 {
		cfg.ScoreThreshold = DefaultConfig().ScoreThreshold
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Pipeline{
		judge: judge,
		cfg:   cfg,
		log:   log,
		state: StateIdle,
	}
}

// Run validates preconditions and starts the run. The returned channel
// carries progress events and closes when the run reaches a terminal state.
// A PreconditionError is returned before any network call is made.
func (p *Pipeline) Run(ctx context.Context, in RunInput, docs []CandidateDocument) (<-chan Event, error) {
	if len(in.Embedding) == 0 {
		return nil, &PreconditionError{Reason: "persona has no embedding; save the persona first"}
	}
	embedded := 0
	for _, d := range docs {
		if len(d.Vectors) > 0 {
			embedded++
		}
	}
	if embedded == 0 {
		return nil, &PreconditionError{Reason: "no documents have embeddings; run the embedding pass first"}
	}

	// Buffered generously so a slow consumer cannot stall judging.
	ch := make(chan Event, 2*p.cfg.TopK+8)
	go p.run(ctx, in, docs, ch)
	return ch, nil
}

// State returns the current run state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Progress returns processed and total candidate counts.
func (p *Pipeline) Progress() (processed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.processed, p.total
}

// Results returns a snapshot of accepted matches, sorted by descending
// relevance score.
func (p *Pipeline) Results() []*Match {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Match, len(p.accepted))
	copy(out, p.accepted)
	return out
}

func (p *Pipeline) run(ctx context.Context, in RunInput, docs []CandidateDocument, ch chan<- Event) {
	defer close(ch)

	p.setState(StateRanking)
	ch <- p.snapshotEvent(EventState, "")

	ranked, err := RankTopK(in.Embedding, docs, p.cfg.TopK)
	if err != nil {
		p.setState(StateFailed)
		p.log.Error("MatchPipeline", "Ranking failed", map[string]interface{}{"error": err.Error()})
		ch <- p.snapshotEvent(EventState, err.Error())
		return
	}

	p.mu.Lock()
	p.total = len(ranked)
	p.mu.Unlock()

	if len(ranked) == 0 {
		p.setState(StateCompleted)
		ch <- p.snapshotEvent(EventState, "no relevant documents found")
		return
	}

	byID := make(map[string]CandidateDocument, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}

	p.setState(StateJudging)
	ch <- p.snapshotEvent(EventState, "")

	if p.cfg.Concurrency > 1 {
		p.judgeConcurrent(ctx, in, ranked, byID, ch)
	} else {
		p.judgeSequential(ctx, in, ranked, byID, ch)
	}

	if ctx.Err() != nil {
		p.setState(StateStopped)
		ch <- p.snapshotEvent(EventState, "run stopped; partial results kept")
		return
	}

	p.setState(StateCompleted)
	msg := ""
	if len(p.Results()) == 0 {
		msg = "no relevant documents found"
	}
	ch <- p.snapshotEvent(EventState, msg)
}

// judgeSequential processes candidates one at a time in ranked order, with a
// fixed delay between calls. The cancellation signal is checked before each
// candidate and also aborts the in-flight call via the context.
func (p *Pipeline) judgeSequential(ctx context.Context, in RunInput, ranked []RankedCandidate, byID map[string]CandidateDocument, ch chan<- Event) {
	for i, rc := range ranked {
		if ctx.Err() != nil {
			return
		}
		if i > 0 && p.cfg.CandidateDelay > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.cfg.CandidateDelay):
			}
		}
		p.judgeCandidate(ctx, in, rc, byID[rc.DocumentID], ch)
	}
}

// judgeConcurrent is the opt-in relaxation for endpoints that tolerate
// parallel load. Dispatch is still throttled by the candidate delay.
func (p *Pipeline) judgeConcurrent(ctx context.Context, in RunInput, ranked []RankedCandidate, byID map[string]CandidateDocument, ch chan<- Event) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)

	for i, rc := range ranked {
		if gctx.Err() != nil {
			break
		}
		if i > 0 && p.cfg.CandidateDelay > 0 {
			select {
			case <-gctx.Done():
			case <-time.After(p.cfg.CandidateDelay):
			}
		}
		rc := rc
		g.Go(func() error {
			p.judgeCandidate(gctx, in, rc, byID[rc.DocumentID], ch)
			return nil
		})
	}
	_ = g.Wait()
}

func (p *Pipeline) judgeCandidate(ctx context.Context, in RunInput, rc RankedCandidate, doc CandidateDocument, ch chan<- Event) {
	judgment, err := p.judge.Evaluate(ctx, in.ProfileText, doc, in.Location)
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			// Stop request, not a failure; terminal state is set by run()
			return
		}
		// Per-candidate failures never abort the run
		p.log.Warn("MatchPipeline", "Candidate skipped", map[string]interface{}{
			"document_id": rc.DocumentID,
			"error":       err.Error(),
		})
		p.incProcessed()
		ch <- p.snapshotEvent(EventProgress, "")
		return
	}

	p.incProcessed()

	if float64(judgment.Score) < p.cfg.ScoreThreshold {
		ch <- p.snapshotEvent(EventProgress, "")
		return
	}

	m := &Match{
		DocumentID:       rc.DocumentID,
		Similarity:       rc.Similarity,
		SimilarityReason: similarityReason(rc),
		Judgment:         *judgment,
	}
	p.addAccepted(m)

	ev := p.snapshotEvent(EventMatch, "")
	ev.Match = m
	ch <- ev
}

// addAccepted inserts a match keeping the accepted set ordered by descending
// judgment score. Ties keep arrival order.
func (p *Pipeline) addAccepted(m *Match) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pos := len(p.accepted)
	for i, existing := range p.accepted {
		if m.Judgment.Score > existing.Judgment.Score {
			pos = i
			break
		}
	}
	p.accepted = append(p.accepted, nil)
	copy(p.accepted[pos+1:], p.accepted[pos:])
	p.accepted[pos] = m
}

func (p *Pipeline) incProcessed() {
	p.mu.Lock()
	p.processed++
	p.mu.Unlock()
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

func (p *Pipeline) snapshotEvent(t EventType, msg string) Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Event{
		Type:      t,
		State:     p.state,
		Processed: p.processed,
		Total:     p.total,
		Message:   msg,
	}
}

func similarityReason(rc RankedCandidate) string {
	if rc.VectorCount <= 1 {
		return fmt.Sprintf("cosine similarity %.3f against the document embedding", rc.Similarity)
	}
	if rc.BestVector == 0 {
		return fmt.Sprintf("cosine similarity %.3f, best of %d sections (main text)", rc.Similarity, rc.VectorCount)
	}
	return fmt.Sprintf("cosine similarity %.3f, best of %d sections (section %d)", rc.Similarity, rc.VectorCount, rc.BestVector)
}
