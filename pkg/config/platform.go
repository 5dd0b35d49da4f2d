package config

import "runtime"

// ForCurrentPlatform overlays the acceleration method and audio output of the
// running operating system.
func ForCurrentPlatform(c Configuration) Configuration {
	return ForPlatform(c, runtime.GOOS)
}

// ForPlatform overlays the acceleration method and audio output for goos.
// Other fields are left untouched.
func ForPlatform(c Configuration, goos string) Configuration {
	var method, audio string
	switch goos {
	case "darwin":
		method, audio = "videotoolbox", "coreaudio"
	case "windows":
		method, audio = "d3d11va", "wasapi"
	case "linux":
		method, audio = "vaapi", "pulse"
	default:
		return c
	}

	if c.HardwareAcceleration {
		c.HwdecMethod = method
	} else {
		c.HwdecMethod = "no"
	}
	c.AudioOutput = audio
	return c
}
