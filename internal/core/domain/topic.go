package domain

import (
	"fmt"
	"strings"
)

// DefaultMaxTopics is the default bound on the number of topic slots.
const DefaultMaxTopics = 50

// TopicSlot is one editable topic with an optional image attachment.
type TopicSlot struct {
	// Index is assigned when the slot is created and never changes or gets
	// reused while the set exists.
	Index int

	Text       string
	Attachment *Attachment
}

// Topic returns the trimmed text of the slot.
func (s TopicSlot) Topic() string {
	return strings.TrimSpace(s.Text)
}

// IsEmpty reports whether the slot is excluded from submission.
func (s TopicSlot) IsEmpty() bool {
	return s.Topic() == ""
}

// TopicSet is the ordered, bounded collection of topic slots.
// Insertion order is both display and submission order. A TopicSet always
// holds at least one slot.
//
// TopicSet is not safe for concurrent use.
type TopicSet struct {
	slots     []*TopicSlot
	nextIndex int
	capacity  int
}

// NewTopicSet creates a set holding a single empty slot.
// A capacity below one falls back to DefaultMaxTopics.
func NewTopicSet(capacity int) *TopicSet {
	if capacity < 1 {
		capacity = DefaultMaxTopics
	}
	s := &TopicSet{capacity: capacity}
	s.appendSlot()
	return s
}

func (s *TopicSet) appendSlot() *TopicSlot {
	slot := &TopicSlot{Index: s.nextIndex}
	s.nextIndex++
	s.slots = append(s.slots, slot)
	return slot
}

// Capacity returns the maximum number of slots.
func (s *TopicSet) Capacity() int {
	return s.capacity
}

// Len returns the number of slots, empty ones included.
func (s *TopicSet) Len() int {
	return len(s.slots)
}

// AddSlot appends an empty slot and returns its index.
func (s *TopicSet) AddSlot() (int, error) {
	if len(s.slots) >= s.capacity {
		return 0, fmt.Errorf("%w: at most %d topics", ErrCapacityExceeded, s.capacity)
	}
	return s.appendSlot().Index, nil
}

// RemoveSlot removes the slot and its attachment. Removing the only
// remaining slot empties it instead, so the set never becomes empty.
func (s *TopicSet) RemoveSlot(index int) error {
	pos := s.position(index)
	if pos < 0 {
		return fmt.Errorf("slot %d: %w", index, ErrNotFound)
	}
	if len(s.slots) == 1 {
		s.slots[0].Text = ""
		s.slots[0].Attachment = nil
		return nil
	}
	s.slots = append(s.slots[:pos], s.slots[pos+1:]...)
	return nil
}

// ClearAll drops every slot and leaves exactly one fresh empty slot.
func (s *TopicSet) ClearAll() {
	s.slots = nil
	s.appendSlot()
}

// SetText replaces the text of a slot.
func (s *TopicSet) SetText(index int, text string) error {
	slot := s.slot(index)
	if slot == nil {
		return fmt.Errorf("slot %d: %w", index, ErrNotFound)
	}
	slot.Text = text
	return nil
}

// SetAttachment replaces any previous attachment of the slot. Nothing of the
// previous attachment is carried over.
func (s *TopicSet) SetAttachment(index int, a *Attachment) error {
	slot := s.slot(index)
	if slot == nil {
		return fmt.Errorf("slot %d: %w", index, ErrNotFound)
	}
	slot.Attachment = a
	return nil
}

// ClearAttachment removes the attachment of a slot.
func (s *TopicSet) ClearAttachment(index int) error {
	return s.SetAttachment(index, nil)
}

// Slot returns a copy of the slot with the given index.
func (s *TopicSet) Slot(index int) (TopicSlot, bool) {
	slot := s.slot(index)
	if slot == nil {
		return TopicSlot{}, false
	}
	return copySlot(slot), true
}

// Slots returns copies of all slots in display order.
func (s *TopicSet) Slots() []TopicSlot {
	out := make([]TopicSlot, len(s.slots))
	for i, slot := range s.slots {
		out[i] = copySlot(slot)
	}
	return out
}

// Topics returns the trimmed, non-empty topic texts in display order.
func (s *TopicSet) Topics() []string {
	topics := make([]string, 0, len(s.slots))
	for _, slot := range s.slots {
		if t := slot.Topic(); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}

// SubmissionRequest builds the job request for the current slots. Only
// resolved attachments are included, keyed by topic text; staged ones are
// left out rather than waited for.
func (s *TopicSet) SubmissionRequest() JobRequest {
	req := JobRequest{
		Topics:      s.Topics(),
		Attachments: make(map[string]AttachmentRef),
	}
	for _, slot := range s.slots {
		topic := slot.Topic()
		if topic == "" {
			continue
		}
		if ref, ok := slot.Attachment.Ref(); ok {
			req.Attachments[topic] = ref
		}
	}
	return req
}

func (s *TopicSet) slot(index int) *TopicSlot {
	if pos := s.position(index); pos >= 0 {
		return s.slots[pos]
	}
	return nil
}

func (s *TopicSet) position(index int) int {
	for i, slot := range s.slots {
		if slot.Index == index {
			return i
		}
	}
	return -1
}

func copySlot(slot *TopicSlot) TopicSlot {
	return TopicSlot{
		Index:      slot.Index,
		Text:       slot.Text,
		Attachment: slot.Attachment.Clone(),
	}
}
