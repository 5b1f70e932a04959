package gen

// Artifacts holds the three generated outputs of one run: the C declaration
// header consumed by LuaJIT's ffi.cdef, the C++ source exporting the flat
// host functions, and the Lua module wrapping them.
type Artifacts struct {
	FFIHeader  []byte
	HostSource []byte
	LuaModule  []byte
}
