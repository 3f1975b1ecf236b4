package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTopicSet_StartsWithOneEmptySlot(t *testing.T) {
	set := NewTopicSet(5)

	require.Equal(t, 1, set.Len())
	assert.Equal(t, 5, set.Capacity())
	assert.Empty(t, set.Topics())
	assert.Equal(t, 0, set.Slots()[0].Index)
}

func TestNewTopicSet_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultMaxTopics, NewTopicSet(0).Capacity())
}

func TestTopicSet_AddSlot_CapacityExceeded(t *testing.T) {
	set := NewTopicSet(3)

	_, err := set.AddSlot()
	require.NoError(t, err)
	_, err = set.AddSlot()
	require.NoError(t, err)

	_, err = set.AddSlot()
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 3, set.Len())
}

func TestTopicSet_IndexesAreStableAndNotReused(t *testing.T) {
	set := NewTopicSet(10)
	a, _ := set.AddSlot()
	b, _ := set.AddSlot()

	require.NoError(t, set.RemoveSlot(a))
	c, err := set.AddSlot()
	require.NoError(t, err)

	assert.NotEqual(t, a, c)
	assert.Greater(t, c, b)

	var indexes []int
	for _, s := range set.Slots() {
		indexes = append(indexes, s.Index)
	}
	assert.Equal(t, []int{0, b, c}, indexes)
}

func TestTopicSet_RemoveSlot_DropsAttachment(t *testing.T) {
	set := NewTopicSet(10)
	idx, _ := set.AddSlot()
	require.NoError(t, set.SetText(idx, "Go"))
	require.NoError(t, set.SetAttachment(idx, &Attachment{Kind: AttachmentURL, State: AttachmentResolved, URL: "https://x/y.png"}))

	require.NoError(t, set.RemoveSlot(idx))

	_, ok := set.Slot(idx)
	assert.False(t, ok)
	assert.Empty(t, set.SubmissionRequest().Attachments)
}

func TestTopicSet_RemoveSlot_LastSlotIsEmptiedNotRemoved(t *testing.T) {
	set := NewTopicSet(10)
	require.NoError(t, set.SetText(0, "only"))

	require.NoError(t, set.RemoveSlot(0))

	require.Equal(t, 1, set.Len())
	slot, ok := set.Slot(0)
	require.True(t, ok)
	assert.Empty(t, slot.Text)
	assert.Nil(t, slot.Attachment)
}

func TestTopicSet_RemoveSlot_Unknown(t *testing.T) {
	set := NewTopicSet(10)
	assert.ErrorIs(t, set.RemoveSlot(42), ErrNotFound)
}

func TestTopicSet_ClearAll_LeavesOneEmptySlot(t *testing.T) {
	set := NewTopicSet(10)
	for i := 0; i < 4; i++ {
		idx, err := set.AddSlot()
		require.NoError(t, err)
		require.NoError(t, set.SetText(idx, "topic"))
	}

	set.ClearAll()

	require.Equal(t, 1, set.Len())
	assert.True(t, set.Slots()[0].IsEmpty())
	assert.Empty(t, set.Topics())
}

func TestTopicSet_SizeBoundUnderRandomOps(t *testing.T) {
	set := NewTopicSet(4)
	ops := []string{"add", "add", "add", "add", "add", "rm", "add", "clear", "add", "rm", "rm", "rm", "add"}

	for _, op := range ops {
		switch op {
		case "add":
			_, _ = set.AddSlot()
		case "rm":
			slots := set.Slots()
			_ = set.RemoveSlot(slots[len(slots)-1].Index)
		case "clear":
			set.ClearAll()
		}
		assert.LessOrEqual(t, set.Len(), set.Capacity())
		assert.GreaterOrEqual(t, set.Len(), 1)
	}
}

func TestTopicSet_Topics_SkipsBlankSlots(t *testing.T) {
	set := NewTopicSet(10)
	b, _ := set.AddSlot()
	c, _ := set.AddSlot()
	require.NoError(t, set.SetText(0, "  first  "))
	require.NoError(t, set.SetText(b, "   "))
	require.NoError(t, set.SetText(c, "third"))

	assert.Equal(t, []string{"first", "third"}, set.Topics())
	assert.Equal(t, 3, set.Len())
}

func TestTopicSet_SubmissionRequest_OnlyResolvedAttachments(t *testing.T) {
	set := NewTopicSet(10)
	b, _ := set.AddSlot()
	c, _ := set.AddSlot()
	require.NoError(t, set.SetText(0, "A"))
	require.NoError(t, set.SetText(b, "B"))
	require.NoError(t, set.SetText(c, "C"))

	require.NoError(t, set.SetAttachment(0, &Attachment{Kind: AttachmentUpload, State: AttachmentResolved, StoragePath: "uploads/a.png"}))
	require.NoError(t, set.SetAttachment(b, &Attachment{Kind: AttachmentUpload, State: AttachmentStaged, Data: []byte{1}}))
	require.NoError(t, set.SetAttachment(c, &Attachment{Kind: AttachmentURL, State: AttachmentStaged, URL: "https://x/c.png", URLStatus: URLStatusUnreachable}))

	req := set.SubmissionRequest()

	assert.Equal(t, []string{"A", "B", "C"}, req.Topics)
	require.Len(t, req.Attachments, 1)
	assert.Equal(t, AttachmentRef{Mode: RefModeUploaded, Path: "uploads/a.png"}, req.Attachments["A"])
}

func TestTopicSet_SlotsReturnsCopies(t *testing.T) {
	set := NewTopicSet(10)
	require.NoError(t, set.SetAttachment(0, &Attachment{Kind: AttachmentUpload, Data: []byte("abc")}))

	slots := set.Slots()
	slots[0].Text = "mutated"
	slots[0].Attachment.Data[0] = 'z'

	slot, _ := set.Slot(0)
	assert.Empty(t, slot.Text)
	assert.Equal(t, []byte("abc"), slot.Attachment.Data)
}
