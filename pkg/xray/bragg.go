package xray

import (
	"errors"
	"fmt"
	"math"
)

// HC is Planck's constant times the speed of light in eV·Å.
const HC = 12398.4

// OffsetDistance is the lateral beam offset of the monochromator in mm.
// The second crystal sits OffsetDistance/tan(2θ) downstream of the first.
const OffsetDistance = 300.0

// Diffraction errors.
var (
	ErrInvalidEnergy = errors.New("photon energy must be positive")
	ErrNoDiffraction = errors.New("no diffraction for reflection")
)

// WavelengthToEnergy converts a wavelength in angstrom to photon energy in eV.
func WavelengthToEnergy(wavelength float64) float64 {
	return HC / wavelength
}

// EnergyToWavelength converts photon energy in eV to wavelength in angstrom.
func EnergyToWavelength(energy float64) float64 {
	return HC / energy
}

// BraggAngle returns the Bragg angle in degrees for photon energy in eV.
func BraggAngle(m Material, r Reflection, energy float64) (float64, error) {
	if !(energy > 0) || math.IsInf(energy, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidEnergy, energy)
	}
	d, err := DSpace(m, r)
	if err != nil {
		return 0, err
	}
	s := EnergyToWavelength(energy) / (2 * d)
	if s > 1 {
		return 0, fmt.Errorf("%w: %s %s at %v eV", ErrNoDiffraction, m, r, energy)
	}
	return rad2deg(math.Asin(s)), nil
}

// BraggEnergy returns the photon energy in eV diffracted at theta degrees.
// Angles with sin(theta) <= 0 diffract nothing and return ErrNoDiffraction.
func BraggEnergy(m Material, r Reflection, theta float64) (float64, error) {
	d, err := DSpace(m, r)
	if err != nil {
		return 0, err
	}
	sin := math.Sin(deg2rad(theta))
	if !(sin > 0) {
		return 0, fmt.Errorf("%w: %s %s at %v deg", ErrNoDiffraction, m, r, theta)
	}
	return WavelengthToEnergy(2 * sin * d), nil
}

// Geometry returns the Bragg angle θ in degrees and the crystal separation
// z in mm for photon energy in eV.
func Geometry(m Material, r Reflection, energy float64) (th, z float64, err error) {
	th, err = BraggAngle(m, r, energy)
	if err != nil {
		return 0, 0, err
	}
	z = OffsetDistance / math.Tan(2*deg2rad(th))
	return th, z, nil
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180
}

func rad2deg(rad float64) float64 {
	return rad * 180 / math.Pi
}
