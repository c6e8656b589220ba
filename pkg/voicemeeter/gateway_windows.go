//go:build windows

package voicemeeter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"

	mcperrors "github.com/ajitpratap0/voicemeeter-mcp-go/pkg/errors"
)

// stringBufferSize is the buffer the vendor contract requires for
// VBVMR_GetParameterStringA.
const stringBufferSize = 512

// dllGateway binds the Voicemeeter Remote API DLL through lazy proc lookup.
type dllGateway struct {
	dll *windows.LazyDLL

	login                 *windows.LazyProc
	logout                *windows.LazyProc
	runVoicemeeter        *windows.LazyProc
	getVoicemeeterType    *windows.LazyProc
	getVoicemeeterVersion *windows.LazyProc
	isParametersDirty     *windows.LazyProc
	getParameterFloat     *windows.LazyProc
	setParameterFloat     *windows.LazyProc
	getParameterStringA   *windows.LazyProc
	setParameterStringA   *windows.LazyProc
}

// NewGateway loads the Remote API DLL and binds its entry points.
func NewGateway() (Gateway, error) {
	path, err := probeDLL()
	if err != nil {
		return nil, err
	}

	dll := windows.NewLazyDLL(path)
	if err := dll.Load(); err != nil {
		return nil, mcperrors.DeviceNotInstalled(fmt.Sprintf("failed to load %s: %v", path, err))
	}

	g := &dllGateway{
		dll:                   dll,
		login:                 dll.NewProc("VBVMR_Login"),
		logout:                dll.NewProc("VBVMR_Logout"),
		runVoicemeeter:        dll.NewProc("VBVMR_RunVoicemeeter"),
		getVoicemeeterType:    dll.NewProc("VBVMR_GetVoicemeeterType"),
		getVoicemeeterVersion: dll.NewProc("VBVMR_GetVoicemeeterVersion"),
		isParametersDirty:     dll.NewProc("VBVMR_IsParametersDirty"),
		getParameterFloat:     dll.NewProc("VBVMR_GetParameterFloat"),
		setParameterFloat:     dll.NewProc("VBVMR_SetParameterFloat"),
		getParameterStringA:   dll.NewProc("VBVMR_GetParameterStringA"),
		setParameterStringA:   dll.NewProc("VBVMR_SetParameterStringA"),
	}

	return g, nil
}

// probeDLL returns the first Remote API DLL present on this machine. The
// architecture-matching library is preferred; the 32-bit one is a fallback
// for a 64-bit process since WOW64 redirection handles the thunk.
func probeDLL() (string, error) {
	programFiles := os.Getenv("ProgramFiles")
	programFilesX86 := os.Getenv("ProgramFiles(x86)")
	winDir := os.Getenv("WINDIR")

	var candidates []string
	if runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64" {
		candidates = append(candidates,
			"VoicemeeterRemote64.dll",
			filepath.Join(programFiles, "VB", "Voicemeeter", "VoicemeeterRemote64.dll"),
			filepath.Join(programFilesX86, "VB", "Voicemeeter", "VoicemeeterRemote64.dll"),
			filepath.Join(winDir, "System32", "VoicemeeterRemote64.dll"),
		)
	}
	candidates = append(candidates,
		"VoicemeeterRemote.dll",
		filepath.Join(programFilesX86, "VB", "Voicemeeter", "VoicemeeterRemote.dll"),
		filepath.Join(winDir, "SysWOW64", "VoicemeeterRemote.dll"),
	)

	for _, candidate := range candidates {
		if filepath.IsAbs(candidate) {
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			return candidate, nil
		}
		// Bare names resolve through the loader search path.
		dll := windows.NewLazyDLL(candidate)
		if err := dll.Load(); err == nil {
			return candidate, nil
		}
	}

	return "", mcperrors.DeviceNotInstalled("VoicemeeterRemote DLL not found in any known location")
}

func (g *dllGateway) Login() (int32, error) {
	r, _, _ := g.login.Call()
	status := int32(r)
	if status != StatusOK && status != StatusLoginAppNotRunning {
		return status, statusErr("login", status)
	}
	return status, nil
}

func (g *dllGateway) Logout() error {
	r, _, _ := g.logout.Call()
	if status := int32(r); status != StatusOK {
		return statusErr("logout", status)
	}
	return nil
}

func (g *dllGateway) RunVoicemeeter(kind int32) error {
	r, _, _ := g.runVoicemeeter.Call(uintptr(kind))
	if status := int32(r); status != StatusOK {
		return statusErr("run", status)
	}
	return nil
}

func (g *dllGateway) GetVoicemeeterType() (int32, error) {
	var vmType int32
	r, _, _ := g.getVoicemeeterType.Call(uintptr(unsafe.Pointer(&vmType)))
	if status := int32(r); status != StatusOK {
		return 0, statusErr("get_type", status)
	}
	return vmType, nil
}

func (g *dllGateway) GetVoicemeeterVersion() (int32, error) {
	var version int32
	r, _, _ := g.getVoicemeeterVersion.Call(uintptr(unsafe.Pointer(&version)))
	if status := int32(r); status != StatusOK {
		return 0, statusErr("get_version", status)
	}
	return version, nil
}

func (g *dllGateway) IsParametersDirty() (bool, error) {
	r, _, _ := g.isParametersDirty.Call()
	status := int32(r)
	if status < 0 {
		return false, statusErr("is_dirty", status)
	}
	return status > 0, nil
}

func (g *dllGateway) GetParameterFloat(name string) (float32, error) {
	cname, err := windows.BytePtrFromString(name)
	if err != nil {
		return 0, fmt.Errorf("invalid parameter name %q: %w", name, err)
	}

	var value float32
	r, _, _ := g.getParameterFloat.Call(
		uintptr(unsafe.Pointer(cname)),
		uintptr(unsafe.Pointer(&value)),
	)
	if status := int32(r); status != StatusOK {
		return 0, statusErr("get_parameter_float", status)
	}
	return value, nil
}

func (g *dllGateway) SetParameterFloat(name string, value float32) error {
	cname, err := windows.BytePtrFromString(name)
	if err != nil {
		return fmt.Errorf("invalid parameter name %q: %w", name, err)
	}

	r, _, _ := g.setParameterFloat.Call(
		uintptr(unsafe.Pointer(cname)),
		uintptr(math32bits(value)),
	)
	if status := int32(r); status != StatusOK {
		return statusErr("set_parameter_float", status)
	}
	return nil
}

func (g *dllGateway) GetParameterString(name string) (string, error) {
	cname, err := windows.BytePtrFromString(name)
	if err != nil {
		return "", fmt.Errorf("invalid parameter name %q: %w", name, err)
	}

	buf := make([]byte, stringBufferSize)
	r, _, _ := g.getParameterStringA.Call(
		uintptr(unsafe.Pointer(cname)),
		uintptr(unsafe.Pointer(&buf[0])),
	)
	if status := int32(r); status != StatusOK {
		return "", statusErr("get_parameter_string", status)
	}
	return windows.ByteSliceToString(buf), nil
}

func (g *dllGateway) SetParameterString(name, value string) error {
	cname, err := windows.BytePtrFromString(name)
	if err != nil {
		return fmt.Errorf("invalid parameter name %q: %w", name, err)
	}
	cvalue, err := windows.BytePtrFromString(value)
	if err != nil {
		return fmt.Errorf("invalid parameter value for %q: %w", name, err)
	}

	r, _, _ := g.setParameterStringA.Call(
		uintptr(unsafe.Pointer(cname)),
		uintptr(unsafe.Pointer(cvalue)),
	)
	if status := int32(r); status != StatusOK {
		return statusErr("set_parameter_string", status)
	}
	return nil
}

func (g *dllGateway) GetLevel(levelType, channel int32) (float32, error) {
	var value float32
	r, _, _ := g.getLevelCall(levelType, channel, &value)
	if status := int32(r); status != StatusOK {
		return 0, statusErr("get_level", status)
	}
	return value, nil
}

func (g *dllGateway) getLevelCall(levelType, channel int32, out *float32) (uintptr, uintptr, error) {
	proc := g.dll.NewProc("VBVMR_GetLevel")
	return proc.Call(
		uintptr(levelType),
		uintptr(channel),
		uintptr(unsafe.Pointer(out)),
	)
}

// math32bits passes a float32 by value through the C float argument slot.
func math32bits(f float32) uint32 {
	return *(*uint32)(unsafe.Pointer(&f))
}
