package replay

import "github.com/mpapenbr/f1replay-go/pkg/model"

// Sink consumes the controller's output. DrawCircuit is called once per
// load, DrawFrame once per tick. The controller never touches a
// rendering surface directly.
type Sink interface {
	DrawCircuit(geo *model.CircuitGeometry) error
	DrawFrame(frame *model.FrameSnapshot) error
	Close() error
}
