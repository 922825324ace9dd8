package pose

import (
	gomath "math"

	"github.com/Faultbox/fitmirror/pkg/math"
)

// Feature names the normalized pose scalars. The set is closed: garment
// model files referencing any other name are rejected at load time.
type Feature string

// The full feature set.
const (
	FeatureTorsoLength       Feature = "torso_length"
	FeatureArmExtension      Feature = "arm_extension"
	FeatureMovementIntensity Feature = "movement_intensity"
	FeatureOcclusionLeft     Feature = "occlusion_left"
	FeatureOcclusionRight    Feature = "occlusion_right"
)

// AllFeatures lists every feature in declaration order.
var AllFeatures = []Feature{
	FeatureTorsoLength,
	FeatureArmExtension,
	FeatureMovementIntensity,
	FeatureOcclusionLeft,
	FeatureOcclusionRight,
}

// KnownFeature reports whether name is part of the feature set.
func KnownFeature(name Feature) bool {
	for _, f := range AllFeatures {
		if f == name {
			return true
		}
	}
	return false
}

// Features holds the normalized pose scalars derived once per request.
// TorsoLength is in [0, 1.2], ArmExtension in [0, 1.4], the rest in
// [0, 1].
type Features struct {
	TorsoLength       float64
	ArmExtension      float64
	MovementIntensity float64
	OcclusionLeft     float64
	OcclusionRight    float64
}

// Get returns the named feature value, 0 for unknown names.
func (f Features) Get(name Feature) float64 {
	switch name {
	case FeatureTorsoLength:
		return f.TorsoLength
	case FeatureArmExtension:
		return f.ArmExtension
	case FeatureMovementIntensity:
		return f.MovementIntensity
	case FeatureOcclusionLeft:
		return f.OcclusionLeft
	case FeatureOcclusionRight:
		return f.OcclusionRight
	}
	return 0
}

// Map returns the features as a name → value map for metadata output.
func (f Features) Map() map[string]float64 {
	m := make(map[string]float64, len(AllFeatures))
	for _, name := range AllFeatures {
		m[string(name)] = f.Get(name)
	}
	return m
}

// Summary returns the features rounded to 4 decimals.
func (f Features) Summary() map[string]float64 {
	m := f.Map()
	for name, value := range m {
		m[name] = gomath.Round(value*1e4) / 1e4
	}
	return m
}

// ExtractFeatures maps raw 3D keypoints into the normalized feature
// set. Every division carries an epsilon guard so no feature can be NaN
// or infinite for finite keypoints.
func ExtractFeatures(keypoints map[string]math.Vec3, scale float64) Features {
	shoulderL := keypoints["shoulder_l"]
	shoulderR := keypoints["shoulder_r"]
	neck := keypoints["neck"]
	pelvis := keypoints["pelvis"]
	wristL := keypoints["wrist_l"]
	wristR := keypoints["wrist_r"]

	shoulderWidth := shoulderL.Distance(shoulderR)
	if shoulderWidth <= 1e-6 {
		shoulderWidth = max(scale*0.6, 1e-4)
	}

	refScale := scale
	if refScale == 0 {
		refScale = 1.0
	}
	torsoLength := neck.Distance(pelvis)
	if torsoLength <= 1e-6 {
		torsoLength = refScale
	}
	torsoLengthNorm := min(1.2, torsoLength/(refScale*1.2))

	armExtension := (wristL.Distance(shoulderL) + wristR.Distance(shoulderR)) / (shoulderWidth * 2.0)
	armExtension = math.Clamp(armExtension, 0, 1.4)

	wristSpan := wristL.Distance(wristR)
	movementIntensity := math.Clamp(wristSpan/(shoulderWidth*2.2+1e-5), 0, 1)

	torsoCenterX := (shoulderL.X + shoulderR.X) * 0.5
	occlusionLeft := math.Clamp(1.0-gomath.Abs(wristL.X-torsoCenterX)/(shoulderWidth*1.4+1e-5), 0, 1)
	occlusionRight := math.Clamp(1.0-gomath.Abs(wristR.X-torsoCenterX)/(shoulderWidth*1.4+1e-5), 0, 1)

	return Features{
		TorsoLength:       torsoLengthNorm,
		ArmExtension:      armExtension,
		MovementIntensity: movementIntensity,
		OcclusionLeft:     occlusionLeft,
		OcclusionRight:    occlusionRight,
	}
}
