// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"code.hybscloud.com/kont"
)

// Reify converts a Cont-world coroutine body to Expr-world.
func Reify(m kont.Eff[Result]) kont.Expr[Result] {
	return kont.Reify(m)
}

// Reflect converts an Expr-world coroutine body to Cont-world.
func Reflect(m kont.Expr[Result]) kont.Eff[Result] {
	return kont.Reflect(m)
}
