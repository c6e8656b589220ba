package voicemeeter

import (
	"fmt"
	"strings"
	"sync"
)

// FakeGateway simulates the Voicemeeter Remote API in memory. It backs
// --simulate mode and the package tests. Parameters default per the running
// edition's topology; unknown references fail with StatusUnknownParameter the
// way the real DLL does.
type FakeGateway struct {
	mu sync.Mutex

	loggedIn   bool
	appRunning bool

	vtype   int32
	version int32
	dirty   bool

	floatParams  map[string]float32
	stringParams map[string]string
	levels       map[levelKey]float32

	// ScriptStatus forces the named operation to fail with the given vendor
	// status on its next call. Keys match the Gateway operation names, e.g.
	// "get_parameter_float" or "login".
	ScriptStatus map[string]int32

	// CallCount records how many times each operation ran.
	CallCount map[string]int
}

type levelKey struct {
	levelType int32
	channel   int32
}

// NewFakeGateway builds a simulated mixer of the given edition with every
// strip and bus parameter seeded to its defaults.
func NewFakeGateway(variant Variant) *FakeGateway {
	if !variant.Valid() {
		variant = VariantBanana
	}

	g := &FakeGateway{
		appRunning:   true,
		vtype:        int32(variant),
		version:      0x02010008, // 2.1.0.8
		floatParams:  make(map[string]float32),
		stringParams: make(map[string]string),
		levels:       make(map[levelKey]float32),
		ScriptStatus: make(map[string]int32),
		CallCount:    make(map[string]int),
	}

	for i := 0; i < variant.Strips(); i++ {
		g.floatParams[fmt.Sprintf("Strip[%d].mute", i)] = 0
		g.floatParams[fmt.Sprintf("Strip[%d].gain", i)] = 0
		g.floatParams[fmt.Sprintf("Strip[%d].solo", i)] = 0
		g.floatParams[fmt.Sprintf("Strip[%d].A1", i)] = 0
		g.floatParams[fmt.Sprintf("Strip[%d].B1", i)] = 0
		g.stringParams[fmt.Sprintf("Strip[%d].label", i)] = fmt.Sprintf("Strip %d", i)
	}
	for i := 0; i < variant.Buses(); i++ {
		g.floatParams[fmt.Sprintf("Bus[%d].mute", i)] = 0
		g.floatParams[fmt.Sprintf("Bus[%d].gain", i)] = 0
		g.floatParams[fmt.Sprintf("Bus[%d].mono", i)] = 0
		g.stringParams[fmt.Sprintf("Bus[%d].label", i)] = fmt.Sprintf("Bus %d", i)
	}

	return g
}

// SetAppRunning controls whether Login reports the application as running.
func (g *FakeGateway) SetAppRunning(running bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.appRunning = running
}

// SetLevel scripts the level returned for one measurement point and channel.
func (g *FakeGateway) SetLevel(levelType, channel int32, value float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.levels[levelKey{levelType, channel}] = value
}

// SetVersion overrides the packed version reported by GetVoicemeeterVersion.
func (g *FakeGateway) SetVersion(packed int32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.version = packed
}

// FailNext makes the named operation return the given vendor status once.
func (g *FakeGateway) FailNext(op string, status int32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ScriptStatus[op] = status
}

// scripted consumes a scripted failure for op, if one is pending. Callers
// must hold g.mu.
func (g *FakeGateway) scripted(op string) (int32, bool) {
	g.CallCount[op]++
	status, ok := g.ScriptStatus[op]
	if ok {
		delete(g.ScriptStatus, op)
	}
	return status, ok
}

func (g *FakeGateway) Login() (int32, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if status, ok := g.scripted("login"); ok {
		return status, statusErr("login", status)
	}
	g.loggedIn = true
	if !g.appRunning {
		return StatusLoginAppNotRunning, nil
	}
	return StatusOK, nil
}

func (g *FakeGateway) Logout() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if status, ok := g.scripted("logout"); ok {
		return statusErr("logout", status)
	}
	g.loggedIn = false
	return nil
}

func (g *FakeGateway) RunVoicemeeter(kind int32) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if status, ok := g.scripted("run"); ok {
		return statusErr("run", status)
	}
	if kind < KindBasic || kind > KindPotato {
		return statusErr("run", StatusNoClient)
	}
	g.appRunning = true
	g.vtype = kind
	return nil
}

func (g *FakeGateway) GetVoicemeeterType() (int32, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if status, ok := g.scripted("get_type"); ok {
		return 0, statusErr("get_type", status)
	}
	return g.vtype, nil
}

func (g *FakeGateway) GetVoicemeeterVersion() (int32, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if status, ok := g.scripted("get_version"); ok {
		return 0, statusErr("get_version", status)
	}
	return g.version, nil
}

func (g *FakeGateway) IsParametersDirty() (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if status, ok := g.scripted("is_dirty"); ok {
		return false, statusErr("is_dirty", status)
	}
	dirty := g.dirty
	g.dirty = false
	return dirty, nil
}

func (g *FakeGateway) GetParameterFloat(name string) (float32, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if status, ok := g.scripted("get_parameter_float"); ok {
		return 0, statusErr("get_parameter_float", status)
	}
	value, ok := g.floatParams[name]
	if !ok {
		return 0, statusErr("get_parameter_float", StatusUnknownParameter)
	}
	return value, nil
}

func (g *FakeGateway) SetParameterFloat(name string, value float32) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if status, ok := g.scripted("set_parameter_float"); ok {
		return statusErr("set_parameter_float", status)
	}
	if !g.knownParam(name) {
		return statusErr("set_parameter_float", StatusUnknownParameter)
	}
	g.floatParams[name] = value
	g.dirty = true
	return nil
}

func (g *FakeGateway) GetParameterString(name string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if status, ok := g.scripted("get_parameter_string"); ok {
		return "", statusErr("get_parameter_string", status)
	}
	value, ok := g.stringParams[name]
	if !ok {
		return "", statusErr("get_parameter_string", StatusUnknownParameter)
	}
	return value, nil
}

func (g *FakeGateway) SetParameterString(name, value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if status, ok := g.scripted("set_parameter_string"); ok {
		return statusErr("set_parameter_string", status)
	}
	if !g.knownParam(name) {
		return statusErr("set_parameter_string", StatusUnknownParameter)
	}
	g.stringParams[name] = value
	g.dirty = true
	return nil
}

func (g *FakeGateway) GetLevel(levelType, channel int32) (float32, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if status, ok := g.scripted("get_level"); ok {
		return 0, statusErr("get_level", status)
	}
	if levelType < 0 || levelType > 3 || channel < 0 {
		return 0, statusErr("get_level", StatusNoClient)
	}
	return g.levels[levelKey{levelType, channel}], nil
}

// knownParam accepts seeded parameters plus any in-range Strip/Bus reference,
// mirroring the real mixer which accepts writes to parameters it has never
// reported. Callers must hold g.mu.
func (g *FakeGateway) knownParam(name string) bool {
	if _, ok := g.floatParams[name]; ok {
		return true
	}
	if _, ok := g.stringParams[name]; ok {
		return true
	}
	ref, err := ParseParamRef(name)
	if err != nil {
		return false
	}
	variant := Variant(g.vtype)
	if ref.IsStrip() {
		return ref.Index < variant.Strips()
	}
	return ref.Index < variant.Buses()
}

// Snapshot returns a copy of the current float parameters, for tests that
// assert preset application results.
func (g *FakeGateway) Snapshot() map[string]float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string]float32, len(g.floatParams))
	for k, v := range g.floatParams {
		out[k] = v
	}
	return out
}

// StringSnapshot returns a copy of the current string parameters.
func (g *FakeGateway) StringSnapshot() map[string]string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string]string, len(g.stringParams))
	for k, v := range g.stringParams {
		out[k] = v
	}
	return out
}

var _ Gateway = (*FakeGateway)(nil)

// String summarizes the fake's state for log lines in simulate mode.
func (g *FakeGateway) String() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var b strings.Builder
	fmt.Fprintf(&b, "fake voicemeeter %s", Variant(g.vtype))
	if g.loggedIn {
		b.WriteString(" (logged in)")
	}
	return b.String()
}
