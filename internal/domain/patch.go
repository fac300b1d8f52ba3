package domain

import "time"

// Field is one entry of a patch. The zero value leaves the target unchanged.
type Field[T any] struct {
	value T
	set   bool
	clear bool
}

// Set replaces the target with v.
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, set: true}
}

// Clear removes an optional value.
func Clear[T any]() Field[T] {
	return Field[T]{clear: true}
}

// IsSet reports whether the field carries a new value.
func (f Field[T]) IsSet() bool { return f.set }

// IsClear reports whether the field asks for removal.
func (f Field[T]) IsClear() bool { return f.clear }

// Present reports whether the field touches the target at all.
func (f Field[T]) Present() bool { return f.set || f.clear }

// Value returns the carried value and whether one was set.
func (f Field[T]) Value() (T, bool) { return f.value, f.set }

// TicketPatch describes a partial ticket update.
type TicketPatch struct {
	Sector      Field[string]
	ProblemType Field[string]
	Description Field[string]
	Urgency     Field[TicketUrgency]
	Status      Field[TicketStatus]
	Solution    Field[string]
	Cost        Field[Money]
	StartTime   Field[time.Time]
	EndTime     Field[time.Time]
}

// Validate rejects removals of fields a ticket must always carry.
func (p TicketPatch) Validate() error {
	switch {
	case p.Sector.IsClear():
		return invalidPatch("sector")
	case p.ProblemType.IsClear():
		return invalidPatch("problemType")
	case p.Description.IsClear():
		return invalidPatch("description")
	case p.Urgency.IsClear():
		return invalidPatch("urgency")
	case p.Status.IsClear():
		return invalidPatch("status")
	case p.StartTime.IsClear():
		return invalidPatch("startTime")
	}
	return nil
}

// RequestedStatus returns the status the patch asks for, if any.
func (p TicketPatch) RequestedStatus() (TicketStatus, bool) {
	return p.Status.Value()
}

// ApplyTo merges the patch into t. It does not touch UpdatedAt or History.
// A StartTime is only taken when t has none yet.
func (p TicketPatch) ApplyTo(t *Ticket) {
	if v, ok := p.Sector.Value(); ok {
		t.Sector = v
	}
	if v, ok := p.ProblemType.Value(); ok {
		t.ProblemType = v
	}
	if v, ok := p.Description.Value(); ok {
		t.Description = v
	}
	if v, ok := p.Urgency.Value(); ok {
		t.Urgency = v
	}
	if v, ok := p.Status.Value(); ok {
		t.Status = v
	}

	if v, ok := p.Solution.Value(); ok {
		t.Solution = v
	} else if p.Solution.IsClear() {
		t.Solution = ""
	}
	if v, ok := p.Cost.Value(); ok {
		t.Cost = &v
	} else if p.Cost.IsClear() {
		t.Cost = nil
	}
	if v, ok := p.EndTime.Value(); ok {
		t.EndTime = &v
	} else if p.EndTime.IsClear() {
		t.EndTime = nil
	}

	if v, ok := p.StartTime.Value(); ok && t.StartTime == nil {
		t.StartTime = &v
	}
}
