package rosbag1

import "encoding/binary"

var u32 = binary.LittleEndian.Uint32
var u64 = binary.LittleEndian.Uint64

func readInt(x *int, buf []byte) int {
	*x = int(u32(buf))
	return 4
}

func putU32(buf []byte, x uint32) int {
	binary.LittleEndian.PutUint32(buf, x)
	return 4
}

func putU64(buf []byte, x uint64) int {
	binary.LittleEndian.PutUint64(buf, x)
	return 8
}

func putRostime(buf []byte, x uint64) int {
	putU64(buf, uint64(toRostime(x)))
	return 8
}

// rostime is the on-wire ROS time: the upper 32 bits hold nanoseconds, the
// lower 32 bits hold seconds, confusingly the reverse of wall-clock reading
// order.
type rostime uint64

func toRostime(nanosSinceEpoch uint64) rostime {
	secs := nanosSinceEpoch / 1e9
	nsecs := nanosSinceEpoch % 1e9
	return rostime(nsecs<<32 | secs)
}

func fromRostime(t rostime) uint64 {
	nsecs := uint32(t >> 32)
	secs := uint32(t)
	return 1e9*uint64(secs) + uint64(nsecs)
}

func parseROSTime(data []byte) uint64 {
	return fromRostime(rostime(u64(data)))
}
