package editor

// Section is a wizard step, 1-based.
type Section int

const (
	SectionBasics Section = iota + 1
	SectionAddresses
	SectionBankDetails
	SectionAttributes
	SectionCertificates
)

// TotalSteps is the number of wizard sections.
const TotalSteps = int(SectionCertificates)

func (s Section) String() string {
	switch s {
	case SectionBasics:
		return "basics"
	case SectionAddresses:
		return "addresses"
	case SectionBankDetails:
		return "bank details"
	case SectionAttributes:
		return "attributes"
	case SectionCertificates:
		return "certificates"
	default:
		return "unknown"
	}
}

// Wizard tracks the active section, which sections were completed and
// whether there are unsaved edits. It has no terminal state; submission is
// allowed from any step.
type Wizard struct {
	step      int
	completed [TotalSteps + 1]bool
	unsaved   bool
}

func NewWizard() *Wizard {
	return &Wizard{step: 1}
}

func (w *Wizard) Step() int {
	return w.step
}

func (w *Wizard) Section() Section {
	return Section(w.step)
}

// Next advances one step and marks the section being left as completed.
// It is a no-op on the last step.
func (w *Wizard) Next() bool {
	if w.step >= TotalSteps {
		return false
	}
	w.completed[w.step] = true
	w.step++
	return true
}

// Prev retreats one step; no-op on step 1.
func (w *Wizard) Prev() bool {
	if w.step <= 1 {
		return false
	}
	w.step--
	return true
}

// GoTo jumps to step when it is within range. Completion flags are left
// alone.
func (w *Wizard) GoTo(step int) bool {
	if step < 1 || step > TotalSteps {
		return false
	}
	w.step = step
	return true
}

func (w *Wizard) Completed(s Section) bool {
	if s < SectionBasics || int(s) > TotalSteps {
		return false
	}
	return w.completed[s]
}

// CompletedSections returns the completion flag of each section, index 0
// being the basics section.
func (w *Wizard) CompletedSections() []bool {
	out := make([]bool, TotalSteps)
	copy(out, w.completed[1:])
	return out
}

func (w *Wizard) HasUnsavedChanges() bool {
	return w.unsaved
}

func (w *Wizard) markDirty() {
	w.unsaved = true
}

func (w *Wizard) clearUnsaved() {
	w.unsaved = false
}

func (w *Wizard) reset() {
	*w = Wizard{step: 1}
}
