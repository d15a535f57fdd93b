// Package lodcm implements the Large Offset Dual Crystal Monochromator.
//
// # Structure
//
// The LODCM splits the beam into a main line and a mono line. Two crystal
// towers select the material (diamond "C" or silicon "Si") and the
// reflection; an insertable set of diagnostics (yag, dectris, diode, foil)
// sits on the mono line:
//
//	LODCM
//	├── tower1 (FirstTower)   h1n_state, y1_state, chi1_state, reflections
//	├── tower2 (SecondTower)  y2_state, chi2_state, h2n_state, reflections
//	├── calc   (Energy)       th1/th2 offset motors, z1/z2 motors, energy
//	├── yag, dectris, diode   blocking diagnostics
//	└── foil                  hutch-specific filter foils
//
// # Material and Reflection
//
// A tower is diamond or silicon only when all of its state elements agree
// (tower 1 also accepts its horizontal stage being OUT). The assembly
// material is defined only when both towers agree. Reflections are read
// from the towers and must match between them when checked:
//
//	ref, err := lom.Energy.Reflection(true)
//	if errors.Is(err, lodcm.ErrReflectionMismatch) { ... }
//
// # Energy
//
// CalcEnergy converts a photon energy into the Bragg angle and crystal
// separation; GetEnergy reads the th1 pseudo motor back into keV. Both
// degrade to zero when the material is indeterminate.
//
// # Destinations
//
// Destination reports which of the two lines currently receive beam. An
// Unknown state anywhere in the decision yields no destination.
package lodcm
