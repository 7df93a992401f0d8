package view

import "github.com/uyouii/mollifier/model"

// StoryFormulas are the display formulas of the accompanying text, in reading order.
func StoryFormulas() []model.Formula {
	return []model.Formula{
		{Label: "smooth", TeX: `J \in C_c^\infty`},
		{Label: "unit_mass", TeX: `\int J(x) dx = 1`},
		{Label: "scaled", TeX: `J_\epsilon(x) = \frac{1}{\epsilon^n} J\left(\frac{x}{\epsilon}\right)`, Block: true},
		{Label: "convolution", TeX: `(J_\epsilon * f)(x) = \int J_\epsilon(x-y)f(y) dy`, Block: true},
		{Label: "box_average", TeX: `f_\epsilon(x) = \frac{1}{2\epsilon} \int_{-\epsilon}^{\epsilon} f(x-z) dz`},
		{Label: "smoothness", TeX: `J_\epsilon * f \in C^\infty`},
		{Label: "convergence", TeX: `\|J_\epsilon * f - f\|_p \to 0`},
	}
}
