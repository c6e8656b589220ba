package voicemeeter

import "fmt"

// Vendor status codes returned by the Voicemeeter Remote API. Zero means
// success; Login additionally uses 1 for "logged in but the application is
// not running". Negative values are failures.
const (
	StatusOK                 int32 = 0
	StatusLoginAppNotRunning int32 = 1
	StatusNoClient           int32 = -1
	StatusNoServer           int32 = -2
	StatusUnknownParameter   int32 = -3
	StatusStructureMismatch  int32 = -5
)

// Application kinds accepted by RunVoicemeeter.
const (
	KindBasic  int32 = 1
	KindBanana int32 = 2
	KindPotato int32 = 3
)

// Gateway is the narrow surface over the Voicemeeter Remote API. Exactly one
// implementation talks to the vendor DLL; FakeGateway simulates the mixer for
// tests and --simulate mode.
//
// All calls are blocking foreign calls with no timeout. Vendor failures are
// reported as *StatusError so callers can branch on the raw status code.
type Gateway interface {
	// Login opens the client link. Returns the raw vendor status: 0 means
	// connected, 1 means connected but the application is not running.
	Login() (int32, error)

	// Logout closes the client link.
	Logout() error

	// RunVoicemeeter asks the Remote API to launch the given application kind.
	RunVoicemeeter(kind int32) error

	// GetVoicemeeterType reports the running application kind (1/2/3).
	GetVoicemeeterType() (int32, error)

	// GetVoicemeeterVersion reports the packed four-byte version.
	GetVoicemeeterVersion() (int32, error)

	// IsParametersDirty reports whether parameters changed since the last poll.
	IsParametersDirty() (bool, error)

	GetParameterFloat(name string) (float32, error)
	SetParameterFloat(name string, value float32) error
	GetParameterString(name string) (string, error)
	SetParameterString(name, value string) error

	// GetLevel reads one audio level. levelType selects the measurement
	// point (0=input pre-fader, 1=output pre-fader, 2=output post-fader,
	// 3=output post-mute); channel is the flat channel index.
	GetLevel(levelType, channel int32) (float32, error)
}

// StatusError is a vendor call failure carrying the raw Remote API status.
type StatusError struct {
	Op     string
	Status int32
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("voicemeeter: %s returned status %d", e.Op, e.Status)
}

// statusErr builds a StatusError for a failed vendor call.
func statusErr(op string, status int32) error {
	return &StatusError{Op: op, Status: status}
}
