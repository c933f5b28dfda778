package geometry

import "math"

// LawOfCosines returns the distance between the ends of two segments of
// lengths a and b meeting at angle theta.
func LawOfCosines(a, b, theta float64) float64 {
	return math.Sqrt(a*a + b*b - 2*a*b*math.Cos(theta))
}

// TorsionDistance returns the 1-4 distance of a chain with segment lengths
// a, b, c, bond angles alpha and beta, and dihedral phi (0 is cis).
func TorsionDistance(a, b, c, alpha, beta, phi float64) float64 {
	d2 := a*a + b*b + c*c -
		2*a*b*math.Cos(alpha) - 2*b*c*math.Cos(beta) +
		2*a*c*(math.Cos(alpha)*math.Cos(beta)-math.Sin(alpha)*math.Sin(beta)*math.Cos(phi))
	if d2 < 0 {
		return 0
	}
	return math.Sqrt(d2)
}

//Personal.AI order the ending
