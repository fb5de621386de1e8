package panels

// Bridges for the external test package: expose unexported helpers
// without widening the package's real API.

var RegionFor = regionFor

type loader interface{ load() error }

func Load(p loader) error { return p.load() }

type shower interface{ show() error }

func Show(p shower) error { return p.show() }

type hider interface{ hide() error }

func Hide(p hider) error { return p.hide() }
