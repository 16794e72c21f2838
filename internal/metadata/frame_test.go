package metadata

import "testing"

func TestFrameSetRotateBounded(t *testing.T) {
	fs := NewFrameSet(2) // holds frames 0,1,2
	if fs.Index() != 0 {
		t.Fatalf("new FrameSet should start at index 0, got %d", fs.Index())
	}

	fs.Current().Ports.SrcPort = 1
	fs.Rotate(2)
	if fs.Index() != 1 {
		t.Fatalf("after first rotate, index = %d, want 1", fs.Index())
	}

	fs.Current().Ports.SrcPort = 2
	fs.Rotate(2)
	if fs.Index() != 2 {
		t.Fatalf("after second rotate, index = %d, want 2", fs.Index())
	}

	// Bound reached: further rotation must not advance past maxFrameNum.
	fs.Current().Ports.SrcPort = 3
	fs.Rotate(2)
	if fs.Index() != 2 {
		t.Fatalf("rotate past bound should be a no-op, index = %d, want 2", fs.Index())
	}

	frames := fs.Frames()
	if len(frames) != 3 {
		t.Fatalf("Frames() length = %d, want 3", len(frames))
	}
	if frames[0].Ports.SrcPort != 1 || frames[1].Ports.SrcPort != 2 || frames[2].Ports.SrcPort != 3 {
		t.Errorf("unexpected frame contents: %+v", frames)
	}
}

func TestFrameSetMaxFrameNumZeroOverwrites(t *testing.T) {
	// max_frame_num == 0: every encap after the first overwrites frame 0
	// in place, per spec.md §9 Open Question (a).
	fs := NewFrameSet(0)

	fs.Current().Ports.SrcPort = 10
	fs.Rotate(0)
	if fs.Index() != 0 {
		t.Fatalf("rotate with maxFrameNum=0 must stay at index 0, got %d", fs.Index())
	}

	fs.Current().Ports.SrcPort = 20 // overwrites the first encap's data
	fs.Rotate(0)

	frames := fs.Frames()
	if len(frames) != 1 {
		t.Fatalf("Frames() length = %d, want 1", len(frames))
	}
	if frames[0].Ports.SrcPort != 20 {
		t.Errorf("expected overwritten value 20, got %d", frames[0].Ports.SrcPort)
	}
}
