package domain

import "time"

// SnapshotSchemaVersion is the version written into persisted records.
// Records with a higher version are ignored on load.
const SnapshotSchemaVersion = 1

// DefaultFreshnessWindow is how long a persisted record stays restorable.
const DefaultFreshnessWindow = 24 * time.Hour

// SnapshotTopic is one persisted topic slot.
type SnapshotTopic struct {
	Text       string          `json:"text"`
	Attachment *AttachmentMeta `json:"attachment,omitempty"`
}

// PersistedSnapshot is the durable copy of the topic workspace.
type PersistedSnapshot struct {
	SchemaVersion int             `json:"schema_version"`
	Topics        []SnapshotTopic `json:"topics"`
	EnableImage   bool            `json:"enable_image"`
	SavedAt       time.Time       `json:"saved_at"`

	// JobHandle is filled on load from the separately stored handle.
	JobHandle *JobHandle `json:"-"`
}

// NewSnapshot captures the slots of a topic set. Slots are kept in display
// order, empty ones included, so an edit in progress survives a restart.
func NewSnapshot(set *TopicSet, enableImage bool, now time.Time) *PersistedSnapshot {
	slots := set.Slots()
	snap := &PersistedSnapshot{
		SchemaVersion: SnapshotSchemaVersion,
		Topics:        make([]SnapshotTopic, 0, len(slots)),
		EnableImage:   enableImage,
		SavedAt:       now,
	}
	for _, slot := range slots {
		snap.Topics = append(snap.Topics, SnapshotTopic{
			Text:       slot.Text,
			Attachment: slot.Attachment.Meta(),
		})
	}
	return snap
}

// IsExpired reports whether savedAt lies beyond the freshness window.
func IsExpired(savedAt, now time.Time, window time.Duration) bool {
	if savedAt.IsZero() {
		return true
	}
	return now.Sub(savedAt) > window
}

// RestoreReport describes what rebuilding a topic set from a snapshot did.
type RestoreReport struct {
	Restored bool

	// DroppedAttachments lists slot indexes whose attachment never resolved
	// and could not be brought back.
	DroppedAttachments []int
}

// Restore rebuilds a topic set from the snapshot. Only resolved attachment
// references come back; staged ones are dropped and reported. newID supplies
// identities for the restored attachments.
func (p *PersistedSnapshot) Restore(capacity int, newID func() string) (*TopicSet, RestoreReport) {
	set := NewTopicSet(capacity)
	report := RestoreReport{Restored: true}
	if p == nil || len(p.Topics) == 0 {
		return set, report
	}

	set.slots = nil
	for i, topic := range p.Topics {
		if i >= set.capacity {
			break
		}
		slot := set.appendSlot()
		slot.Text = topic.Text
		if topic.Attachment == nil {
			continue
		}
		if a, ok := topic.Attachment.Restore(newID()); ok {
			slot.Attachment = a
		} else {
			report.DroppedAttachments = append(report.DroppedAttachments, slot.Index)
		}
	}
	return set, report
}
