package opdefs

/*
	Sole purpose of this package is to import all the operators such that if some binary
	imports the package opdefs, all operators get imported too.
*/

import (
	_ "lispy/opdefs/arith"
	_ "lispy/opdefs/compare"
	_ "lispy/opdefs/list"
	_ "lispy/opdefs/predicate"
	_ "lispy/opdefs/std"
)
