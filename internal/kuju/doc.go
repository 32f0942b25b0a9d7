/*
Package kuju decodes the Kuju/MSTS container format used by consist (.con),
wagon (.wag) and engine (.eng) files.

A container starts with a header that selects the character encoding (an
FF FE byte order mark means UTF-16, otherwise an 8-bit code page), whether
the body is zlib-compressed ("SIMISA@F") or not ("SIMISA@@"), and whether the
body is binary or textual (the eighth character of the sub-header, 'b' or
't').

Both body encodings describe the same tree of token-tagged blocks. Binary
bodies are little-endian records of

	uint16 token | uint16 flags | uint32 length | length bytes of payload

and textual bodies spell the same tree as

	Train ( TrainCfg ( "key" Engine ( UiD ( 0 ) EngineData ( name folder ) ) ) )

Both are exposed through the Block interface, whose read cursor only moves
forward within the block's bounds. Open and Decode read the whole body into
memory, so no file handle outlives the call.
*/
package kuju
