package aes256

func addRoundKey(b *[BlockSize]byte, k *[BlockSize]byte) {
	for i := range b {
		b[i] ^= k[i]
	}
}

func subBytes(b *[BlockSize]byte) {
	for i := range b {
		b[i] = sbox[b[i]]
	}
}

func invSubBytes(b *[BlockSize]byte) {
	for i := range b {
		b[i] = invSbox[b[i]]
	}
}

// shiftRows rotates row r left by r positions.
func shiftRows(b *[BlockSize]byte) {
	s := *b
	for r := 1; r < 4; r++ {
		for c := 0; c < 4; c++ {
			b[r+4*c] = s[r+4*((c+r)%4)]
		}
	}
}

func invShiftRows(b *[BlockSize]byte) {
	s := *b
	for r := 1; r < 4; r++ {
		for c := 0; c < 4; c++ {
			b[r+4*((c+r)%4)] = s[r+4*c]
		}
	}
}

// mixColumns multiplies each column by the MDS matrix
//
//	02 03 01 01
//	01 02 03 01
//	01 01 02 03
//	03 01 01 02
func mixColumns(b *[BlockSize]byte) {
	for c := 0; c < 4; c++ {
		col := b[4*c : 4*c+4]
		a0, a1, a2, a3 := col[0], col[1], col[2], col[3]
		col[0] = xtime(a0) ^ (xtime(a1) ^ a1) ^ a2 ^ a3
		col[1] = a0 ^ xtime(a1) ^ (xtime(a2) ^ a2) ^ a3
		col[2] = a0 ^ a1 ^ xtime(a2) ^ (xtime(a3) ^ a3)
		col[3] = (xtime(a0) ^ a0) ^ a1 ^ a2 ^ xtime(a3)
	}
}

// invMixColumns uses the inverse matrix {0e,0b,0d,09}.
func invMixColumns(b *[BlockSize]byte) {
	for c := 0; c < 4; c++ {
		col := b[4*c : 4*c+4]
		a0, a1, a2, a3 := col[0], col[1], col[2], col[3]
		col[0] = mul(a0, 0x0e) ^ mul(a1, 0x0b) ^ mul(a2, 0x0d) ^ mul(a3, 0x09)
		col[1] = mul(a0, 0x09) ^ mul(a1, 0x0e) ^ mul(a2, 0x0b) ^ mul(a3, 0x0d)
		col[2] = mul(a0, 0x0d) ^ mul(a1, 0x09) ^ mul(a2, 0x0e) ^ mul(a3, 0x0b)
		col[3] = mul(a0, 0x0b) ^ mul(a1, 0x0d) ^ mul(a2, 0x09) ^ mul(a3, 0x0e)
	}
}
