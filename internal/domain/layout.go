package domain

// LayoutSlot is one expected component slot in a drone-class layout.
type LayoutSlot struct {
	ComponentType string
	Key           string
	Quantity      int
	Required      bool
}

// QuadLayout is the standard multirotor configuration.
var QuadLayout = []LayoutSlot{
	{ComponentType: "motor", Key: "motor", Quantity: 4, Required: true},
	{ComponentType: "esc", Key: "esc", Quantity: 1, Required: true},
	{ComponentType: "fc", Key: "fc", Quantity: 1, Required: true},
	{ComponentType: "frame", Key: "frame", Quantity: 1, Required: true},
	{ComponentType: "propeller", Key: "propeller", Quantity: 1, Required: true},
	{ComponentType: "battery", Key: "battery", Quantity: 1, Required: true},
	{ComponentType: "vtx", Key: "vtx", Quantity: 1, Required: false},
	{ComponentType: "receiver", Key: "receiver", Quantity: 1, Required: false},
}

// FlyingWingLayout has one pusher motor, two servos, and a wing airframe.
var FlyingWingLayout = []LayoutSlot{
	{ComponentType: "motor", Key: "motor", Quantity: 1, Required: true},
	{ComponentType: "esc", Key: "esc", Quantity: 1, Required: true},
	{ComponentType: "fc", Key: "fc", Quantity: 1, Required: true},
	{ComponentType: "airframe", Key: "airframe", Quantity: 1, Required: true},
	{ComponentType: "propeller", Key: "propeller", Quantity: 1, Required: true},
	{ComponentType: "battery", Key: "battery", Quantity: 1, Required: true},
	{ComponentType: "servo", Key: "servo", Quantity: 2, Required: true},
	{ComponentType: "vtx", Key: "vtx", Quantity: 1, Required: false},
	{ComponentType: "receiver", Key: "receiver", Quantity: 1, Required: false},
}

// VTOLLayout has four hover motors plus one pusher, two ESCs, and servos.
var VTOLLayout = []LayoutSlot{
	{ComponentType: "motor", Key: "motor", Quantity: 5, Required: true},
	{ComponentType: "esc", Key: "esc", Quantity: 2, Required: true},
	{ComponentType: "fc", Key: "fc", Quantity: 1, Required: true},
	{ComponentType: "airframe", Key: "airframe", Quantity: 1, Required: true},
	{ComponentType: "propeller", Key: "propeller", Quantity: 2, Required: true},
	{ComponentType: "battery", Key: "battery", Quantity: 1, Required: true},
	{ComponentType: "servo", Key: "servo", Quantity: 2, Required: true},
	{ComponentType: "vtx", Key: "vtx", Quantity: 1, Required: false},
	{ComponentType: "receiver", Key: "receiver", Quantity: 1, Required: false},
}

var classToLayout = map[string][]LayoutSlot{
	"5inch_freestyle": QuadLayout,
	"5inch_race":      QuadLayout,
	"3inch":           QuadLayout,
	"whoop":           QuadLayout,
	"7inch_lr":        QuadLayout,
	"sub250":          QuadLayout,
	"5inch":           QuadLayout,
	"flying_wing":     FlyingWingLayout,
	"vtol":            VTOLLayout,
}

// LayoutFor returns the component layout for a drone class, falling
// back to the quad layout for unknown classes.
func LayoutFor(droneClass string) []LayoutSlot {
	if layout, ok := classToLayout[droneClass]; ok {
		return layout
	}
	return QuadLayout
}

// MotorCountFor returns the expected motor count for a drone class.
func MotorCountFor(droneClass string) int {
	for _, slot := range LayoutFor(droneClass) {
		if slot.ComponentType == "motor" {
			return slot.Quantity
		}
	}
	return 4
}
