package engine

// LEDPackage describes one LED package class: luminous intensity per colour
// channel and forward voltage of the red and green/blue rails.
type LEDPackage struct {
	Name     string
	MaxPitch float64 // exclusive upper pitch bound in mm; 0 means unbounded
	R, G, B  float64
	VoltR    float64
	VoltGB   float64
}

// LEDPackages is ordered by pitch bound. The last entry catches the rest.
var LEDPackages = []LEDPackage{
	{Name: "0606", MaxPitch: 1.2, R: 12.09, G: 27.59, B: 5.09, VoltR: 2.8, VoltGB: 3.8},
	{Name: "1010", MaxPitch: 1.7, R: 15, G: 36, B: 6, VoltR: 4.2, VoltGB: 4.2},
	{Name: "1515", MaxPitch: 2.2, R: 4.2, G: 22.46, B: 4.56, VoltR: 4.2, VoltGB: 4.2},
	{Name: "2020", R: 7.15, G: 24.8, B: 7, VoltR: 4.2, VoltGB: 4.2},
}

// PackageForPitch returns the LED package used at the given pitch.
func PackageForPitch(pitch float64) LEDPackage {
	for _, p := range LEDPackages {
		if p.MaxPitch == 0 || pitch < p.MaxPitch {
			return p
		}
	}
	return LEDPackages[len(LEDPackages)-1]
}

// White point split of target luminance across R, G and B.
var whiteBalance = [3]float64{0.2715, 0.6715, 0.057}

const (
	icPowerW    = 0.006
	hubPowerW   = 3
	powerMargin = 1.2
)

type powerBudget struct {
	pkg     LEDPackage
	current [3]float64
	ledW    float64
	systemW float64
	totalW  float64
}

func computePower(s *Spec, c Constants) powerBudget {
	pkg := PackageForPitch(s.PitchMM)
	intensity := [3]float64{pkg.R, pkg.G, pkg.B}
	volts := [3]float64{pkg.VoltR, pkg.VoltGB, pkg.VoltGB}
	scan := float64(s.MaxScan)
	pitchM := s.PitchMM / 1000

	b := powerBudget{pkg: pkg}
	var perLED float64
	for ch := range intensity {
		nits := s.Params.LuminanceNits / (1 - c.CalibrationRatio) * whiteBalance[ch]
		b.current[ch] = nits / ((intensity[ch] / 1000) / pitchM / pitchM * c.WaveformDuty / scan)
		perLED += (b.current[ch] / 1000) * c.WaveformDuty / scan * volts[ch]
	}
	b.ledW = perLED * s.TotalLEDsK * 1000
	b.systemW = (s.TotalPWM+s.TotalScan)*icPowerW*pkg.VoltGB + float64(s.TotalHubs)*hubPowerW
	b.totalW = (b.ledW + b.systemW) * powerMargin
	return b
}
