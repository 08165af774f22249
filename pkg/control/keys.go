package control

// Per-key increments.
const (
	DriveStep   = 0.1
	AngleStep   = 1.0
	ExtendStep  = 0.1
	DoorStep    = 0.1
	OrbitStep   = 0.05
	StepNrDelta = 1
)

// keyMap binds key names (as reported by a browser's KeyboardEvent.key)
// to commands.
var keyMap = map[string]Command{
	"a":          {Kind: CmdDrive, Value: -DriveStep},
	"d":          {Kind: CmdDrive, Value: DriveStep},
	"q":          {Kind: CmdYaw, Value: AngleStep},
	"e":          {Kind: CmdYaw, Value: -AngleStep},
	"w":          {Kind: CmdPitch, Value: AngleStep},
	"s":          {Kind: CmdPitch, Value: -AngleStep},
	"o":          {Kind: CmdExtend, Value: ExtendStep},
	"p":          {Kind: CmdExtend, Value: -ExtendStep},
	"n":          {Kind: CmdDoor, Value: DoorStep},
	"m":          {Kind: CmdDoor, Value: -DoorStep},
	" ":          {Kind: CmdToggleWireframe},
	"r":          {Kind: CmdResetCamera},
	"1":          {Kind: CmdView, View: ViewFront},
	"2":          {Kind: CmdView, View: ViewLeft},
	"3":          {Kind: CmdView, View: ViewTop},
	"4":          {Kind: CmdView, View: ViewAxo},
	"0":          {Kind: CmdToggleSplit},
	"ArrowLeft":  {Kind: CmdOrbit, Value: OrbitStep},
	"ArrowRight": {Kind: CmdOrbit, Value: -OrbitStep},
	"ArrowUp":    {Kind: CmdOrbit, Value2: -OrbitStep},
	"ArrowDown":  {Kind: CmdOrbit, Value2: OrbitStep},
	"l":          {Kind: CmdSteps, Value: StepNrDelta},
	"ç":          {Kind: CmdSteps, Value: -StepNrDelta},
	",":          {Kind: CmdStepWidth, Value: StepWidthDelta},
	".":          {Kind: CmdStepWidth, Value: -StepWidthDelta},
	"h":          {Kind: CmdToggleHelp},
}

// keyAliases maps alternative spellings to the canonical key names.
var keyAliases = map[string]string{
	"space":  " ",
	"Space":  " ",
	"left":   "ArrowLeft",
	"right":  "ArrowRight",
	"up":     "ArrowUp",
	"down":   "ArrowDown",
	"comma":  ",",
	"period": ".",
	"cedil":  "ç",
}

// KeyCommand returns the command bound to key.
func KeyCommand(key string) (Command, bool) {
	if alias, ok := keyAliases[key]; ok {
		key = alias
	}
	c, ok := keyMap[key]
	return c, ok
}

// Keys returns the bound key names.
func Keys() []string {
	keys := make([]string, 0, len(keyMap))
	for k := range keyMap {
		keys = append(keys, k)
	}
	return keys
}

// HelpLines describes the key bindings for the viewer's help overlay.
var HelpLines = []string{
	"a / d: drive backward / forward",
	"q / e: rotate stair base",
	"w / s: raise / lower ladder",
	"o / p: extend / retract upper ladder",
	"n / m: raise / lower garage door",
	", / .: wider / narrower steps (truck size)",
	"l / ç: more / fewer steps",
	"space: toggle wireframe",
	"arrows: orbit the axonometric camera",
	"wheel: zoom",
	"r: reset camera",
	"1 / 2 / 3 / 4: front / left / top / axonometric view",
	"0: toggle four-view layout",
	"h: toggle this help",
}
