package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"spirebridge/internal/app/ports"
	"spirebridge/internal/domain/spire"
)

// Config wires one session. Transport is required; everything else is
// optional and nil-safe.
type Config struct {
	Transport ports.LineTransport
	Recorder  ports.RunRecorder
	Metrics   ports.BridgeMetrics
	Logger    *slog.Logger
	Now       func() time.Time
}

// Session is the coordinator: it owns the reader loop, the handshake
// manager, the state store, and the single-flight dispatcher. Multiple
// independent sessions can coexist; there is no shared global state.
type Session struct {
	id        string
	transport ports.LineTransport
	recorder  ports.RunRecorder
	metrics   ports.BridgeMetrics
	logger    *slog.Logger
	now       func() time.Time

	store     *StateStore
	queue     *ActionQueue
	handshake *HandshakeManager

	// Dispatcher-goroutine state. waitRev is the store revision at the last
	// dispatch; a line may only go out once the store has moved past it.
	waitRev uint64
	current *dispatchUnit
}

// dispatchUnit is one admitted action lowered to outbound lines. Most
// actions are a single line; card_select and buy_purge expand to several,
// each taking its own single-flight cycle. deferConfirm marks a selection
// whose trailing confirm depends on the snapshot after the last choose.
type dispatchUnit struct {
	action       PendingAction
	steps        []string
	next         int
	deferConfirm bool
}

func New(cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		id:        uuid.NewString(),
		transport: cfg.Transport,
		recorder:  cfg.Recorder,
		metrics:   cfg.Metrics,
		logger:    logger,
		now:       now,
		store:     NewStateStore(),
		queue:     NewActionQueue(),
		handshake: NewHandshakeManager(cfg.Transport, now),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Latest() (spire.Versioned, bool) { return s.store.Latest() }

func (s *Session) HasState() bool { return s.store.HasState() }

// Enqueue admits an already-validated action and returns its sequence
// number. Queueing never needs current readiness.
func (s *Session) Enqueue(intent spire.ActionIntent) uint64 {
	pa := s.queue.Enqueue(intent)
	if s.metrics != nil {
		s.metrics.RecordAdmitted(string(intent.Type))
	}
	return pa.Sequence
}

// ClearQueue drops pending, not-yet-dispatched actions. An action already
// written to the stream cannot be retracted.
func (s *Session) ClearQueue() int {
	n := s.queue.Clear()
	if s.metrics != nil && n > 0 {
		s.metrics.RecordCleared(n)
	}
	return n
}

func (s *Session) QueueSize() int { return s.queue.Size() }

func (s *Session) Handshake() ports.HandshakeInfo {
	st := s.handshake.Status()
	return ports.HandshakeInfo{SignalReceived: st.SignalReceived, AckSent: st.AckSent, TimedOut: st.TimedOut}
}

// TriggerHandshake forces a re-acknowledgment outside the automatic path.
func (s *Session) TriggerHandshake() error {
	return s.handshake.Trigger()
}

// Run drives the reader loop and the dispatcher until the stream closes or
// the context is cancelled. It returns nil on a clean stream close.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.handshake.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel() // a dead reader ends the dispatcher too
		return s.readLoop(gctx)
	})
	g.Go(func() error {
		return s.dispatchLoop(gctx)
	})

	err := g.Wait()
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, ports.ErrClosed)) {
		return nil
	}
	return err
}

// readLoop consumes the game's output stream. Decode failures are logged
// and discarded; the handshake acknowledgment is written inside the same
// iteration that observed the signal.
func (s *Session) readLoop(ctx context.Context) error {
	for {
		line, err := s.transport.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, ports.ErrClosed) || errors.Is(err, context.Canceled) {
				s.logger.Info("game stream closed", "session", s.id)
				return err
			}
			return fmt.Errorf("read game stream: %w", err)
		}
		if line == "" {
			continue
		}

		in, err := DecodeInbound(line)
		if err != nil {
			if s.metrics != nil {
				s.metrics.RecordDecodeFailure()
			}
			s.logger.Warn("discarding malformed line", "session", s.id, "err", err)
			continue
		}

		if in.Ready {
			if err := s.handshake.ObserveSignal(); err != nil {
				return err
			}
			s.logger.Info("readiness signal acknowledged", "session", s.id)
			continue
		}

		rev := s.store.Publish(in.Snapshot, s.now())
		if s.metrics != nil {
			s.metrics.RecordSnapshot()
		}
		s.recordState(ctx, rev, in.Snapshot)
	}
}

// dispatchLoop waits for "new snapshot" or "queue became non-empty" and
// reevaluates the dispatch rule.
func (s *Session) dispatchLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.store.Published():
		case <-s.queue.Enqueued():
		}
		if err := s.pump(ctx); err != nil {
			return err
		}
	}
}

// pump releases at most one line. Single-flight: once a line goes out,
// nothing else is released until the store publishes a fresh snapshot,
// because the game always reports after processing a command.
func (s *Session) pump(ctx context.Context) error {
	for {
		latest, ok := s.store.Latest()
		if !ok {
			return nil
		}
		if s.waitRev != 0 && latest.Revision <= s.waitRev {
			return nil // previous line still in flight
		}
		if !latest.Snapshot.ReadyForCommand {
			return nil
		}

		if s.current == nil {
			head, ok := s.queue.PopHead()
			if !ok {
				return nil
			}
			unit, err := expandUnit(head, latest)
			if err != nil {
				// The unit fails whole; remaining primitives are abandoned.
				s.logger.Warn("dropping undispatchable action",
					"session", s.id, "sequence", head.Sequence, "type", head.Intent.Type, "err", err)
				if s.metrics != nil {
					s.metrics.RecordRejected("dispatch_expand")
				}
				continue
			}
			s.current = unit
		}

		if s.current.next >= len(s.current.steps) {
			// All selections are out. Only the snapshot that followed the
			// last one says whether the screen raised its confirm prompt.
			if s.current.deferConfirm && confirmShown(latest) {
				s.current.steps = append(s.current.steps, "confirm")
				s.current.deferConfirm = false
			} else {
				s.current = nil
				continue
			}
		}

		line := s.current.steps[s.current.next]
		if err := s.transport.WriteLine(line); err != nil {
			seq := s.current.action.Sequence
			s.current = nil
			return fmt.Errorf("write action %d: %w", seq, err)
		}
		if s.metrics != nil {
			s.metrics.RecordDispatched()
		}
		s.recordDispatch(ctx, s.current.action, line)
		s.logger.Debug("dispatched", "session", s.id, "sequence", s.current.action.Sequence, "line", line)

		s.current.next++
		if s.current.next >= len(s.current.steps) && !s.current.deferConfirm {
			s.current = nil
		}
		s.waitRev = latest.Revision
		return nil
	}
}

// expandUnit lowers an admitted action to its outbound lines against the
// latest snapshot. Admission already vetted shapes; this resolves the parts
// only the current snapshot can answer (map node index, trailing confirm).
func expandUnit(pa PendingAction, latest spire.Versioned) (*dispatchUnit, error) {
	intent := pa.Intent
	desc := spire.Describe(&latest.Snapshot)

	single := func(line string) (*dispatchUnit, error) {
		return &dispatchUnit{action: pa, steps: []string{line}}, nil
	}

	switch intent.Type {
	case spire.ActionStartGame:
		return single(encodeStart(intent.Character, intent.Ascension, intent.Seed))
	case spire.ActionPlayCard:
		return single(encodePlay(*intent.CardIndex, intent.TargetIndex))
	case spire.ActionEndTurn:
		return single("end")
	case spire.ActionUsePotion:
		return single(encodePotionUse(*intent.PotionIndex, intent.TargetIndex))
	case spire.ActionDiscardPotion:
		return single(encodePotionDiscard(*intent.PotionIndex))
	case spire.ActionProceed:
		return single("proceed")
	case spire.ActionCancel:
		return single("cancel")
	case spire.ActionChoose:
		return single(encodeChooseIndex(*intent.ChoiceIndex))
	case spire.ActionRest:
		return single(encodeChooseName(intent.Option))
	case spire.ActionCardReward:
		if intent.Bowl {
			return single(encodeChooseName("bowl"))
		}
		return single(encodeChooseName(intent.CardName))
	case spire.ActionCombatReward:
		return single(encodeChooseIndex(*intent.RewardIndex))
	case spire.ActionBossReward:
		return single(encodeChooseName(intent.RelicName))
	case spire.ActionBuyCard, spire.ActionBuyRelic, spire.ActionBuyPotion:
		return single(encodeChooseName(intent.Name))
	case spire.ActionBuyPurge:
		if intent.CardName == "" {
			return single(encodeChooseName("purge"))
		}
		return &dispatchUnit{action: pa, steps: []string{
			encodeChooseName("purge"),
			encodeChooseName(intent.CardName),
			"confirm",
		}}, nil
	case spire.ActionCardSelect:
		steps := make([]string, 0, len(intent.CardNames)+1)
		for _, name := range intent.CardNames {
			steps = append(steps, encodeChooseName(name))
		}
		unit := &dispatchUnit{action: pa, steps: steps}
		if rule, ok := spire.RuleFor(desc.Screen); ok {
			switch rule.SelectConfirm {
			case spire.ConfirmAlways:
				unit.steps = append(unit.steps, "confirm")
			case spire.ConfirmWhenShown:
				unit.deferConfirm = true
			}
		}
		return unit, nil
	case spire.ActionChooseMapNode:
		idx, err := resolveMapNode(desc, *intent.X, *intent.Y)
		if err != nil {
			return nil, err
		}
		return single(encodeChooseIndex(idx))
	case spire.ActionChooseMapBoss:
		return single(encodeChooseName("boss"))
	case spire.ActionOpenChest:
		return single(encodeChooseIndex(0))
	case spire.ActionEventOption:
		return single(encodeChooseIndex(*intent.ChoiceIndex))
	default:
		return nil, fmt.Errorf("no encoding for action type %q", intent.Type)
	}
}

func confirmShown(latest spire.Versioned) bool {
	ss := spire.Describe(&latest.Snapshot).ScreenState()
	return ss != nil && ss.ConfirmUp
}

func resolveMapNode(desc spire.Descriptor, x, y int) (int, error) {
	ss := desc.ScreenState()
	if ss == nil {
		return 0, fmt.Errorf("no map screen state for node (%d,%d)", x, y)
	}
	for i, node := range ss.NextNodes {
		if node.X == x && node.Y == y {
			return i, nil
		}
	}
	return 0, fmt.Errorf("map node (%d,%d) is not reachable from here", x, y)
}

func (s *Session) recordState(ctx context.Context, rev uint64, snap *spire.StateSnapshot) {
	if s.recorder == nil {
		return
	}
	screen := string(spire.Describe(snap).Screen)
	err := s.recorder.RecordState(ctx, ports.StateRecord{
		Sequence:   rev,
		ScreenType: screen,
		ReceivedAt: s.now(),
		State:      snap.Raw,
	})
	if err != nil {
		s.logger.Warn("record state", "session", s.id, "err", err)
	}
}

func (s *Session) recordDispatch(ctx context.Context, pa PendingAction, line string) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.RecordDispatch(ctx, ports.DispatchRecord{
		Sequence:     pa.Sequence,
		ActionType:   string(pa.Intent.Type),
		Line:         line,
		DispatchedAt: s.now(),
	})
	if err != nil {
		s.logger.Warn("record dispatch", "session", s.id, "err", err)
	}
}
