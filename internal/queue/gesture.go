package queue

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrDragInProgress = errors.New("another drag is already in progress")
	ErrNotDraggable   = errors.New("only scheduled posts can be dragged")
	ErrNoActiveDrag   = errors.New("no drag in progress")
)

// DragState состояние жеста перетаскивания
type DragState int

const (
	DragIdle DragState = iota
	DragDragging
	DragOver
)

func (s DragState) String() string {
	switch s {
	case DragDragging:
		return "dragging"
	case DragOver:
		return "over"
	default:
		return "idle"
	}
}

// OutcomeKind результат бросания поста
type OutcomeKind int

const (
	// OutcomeCancelled ничего не меняется
	OutcomeCancelled OutcomeKind = iota
	// OutcomeReorder перестановка внутри дня, применяется сразу
	OutcomeReorder
	// OutcomeRescheduleDialog нужен диалог переноса с предзаполненной датой
	OutcomeRescheduleDialog
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeReorder:
		return "reorder"
	case OutcomeRescheduleDialog:
		return "reschedule_dialog"
	default:
		return "cancelled"
	}
}

// DropOutcome что делать после бросания
type DropOutcome struct {
	Kind       OutcomeKind
	Source     FilledSlot
	Target     Slot
	TargetDate time.Time // полночь дня цели, для диалога
}

// Gesture один жест перетаскивания:
// Idle -> Dragging(source) -> Over(target) -> Dropped|Cancelled -> Idle
type Gesture struct {
	mu     sync.Mutex
	state  DragState
	source FilledSlot
	over   string
}

// NewGesture создаёт жест в состоянии Idle
func NewGesture() *Gesture {
	return &Gesture{}
}

// Start начинает перетаскивание поста
func (g *Gesture) Start(source Slot) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != DragIdle {
		return ErrDragInProgress
	}
	filled, ok := source.(FilledSlot)
	if !ok {
		return ErrNotDraggable
	}
	g.state = DragDragging
	g.source = filled
	g.over = ""
	return nil
}

// Over запоминает текущую цель наведения, без побочных эффектов
func (g *Gesture) Over(targetID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == DragIdle {
		return ErrNoActiveDrag
	}
	g.state = DragOver
	g.over = targetID
	return nil
}

// Drop завершает жест и решает, что делать с постом. Жест всегда возвращается в Idle.
func (g *Gesture) Drop(target Slot, policy EmptySlotPolicy) (DropOutcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == DragIdle {
		return DropOutcome{Kind: OutcomeCancelled}, ErrNoActiveDrag
	}
	source := g.source
	g.reset()

	if target == nil || target.ID() == source.ID() {
		return DropOutcome{Kind: OutcomeCancelled, Source: source}, nil
	}

	outcome := DropOutcome{
		Source:     source,
		Target:     target,
		TargetDate: startOfDay(target.Time()),
	}
	switch {
	case policy == EmptySlotsHidden:
		outcome.Kind = OutcomeRescheduleDialog
	case sameDay(source.Time(), target.Time().In(source.Time().Location())):
		outcome.Kind = OutcomeReorder
	default:
		outcome.Kind = OutcomeRescheduleDialog
	}
	return outcome, nil
}

// End отменяет жест без изменений
func (g *Gesture) End() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
}

// State текущее состояние, id источника и цели наведения
func (g *Gesture) State() (DragState, string, string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == DragIdle {
		return DragIdle, "", ""
	}
	return g.state, g.source.ID(), g.over
}

// Source перетаскиваемый слот
func (g *Gesture) Source() (FilledSlot, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.source, g.state != DragIdle
}

func (g *Gesture) reset() {
	g.state = DragIdle
	g.source = FilledSlot{}
	g.over = ""
}
