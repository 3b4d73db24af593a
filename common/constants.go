package common

// Default scene extent. The scene origin sits at the center of the screen,
// so x spans [-SceneWidth/2, SceneWidth/2] and y spans [-SceneHeight/2, SceneHeight/2].
const (
	SceneWidth  = 750
	SceneHeight = 1334
)

// Window size used by the desktop host.
const (
	BaseWidth  = 375
	BaseHeight = 667
)
