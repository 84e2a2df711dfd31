package typesys

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
)

// builtinTimeAliases maps the ROS2 builtin_interfaces messages back onto the
// ROS1 words they stand in for, both in generated .msg text and in md5sum
// input, matching the original ROS1 message_gen toolchain.
var builtinTimeAliases = map[string]string{
	"builtin_interfaces/msg/Time":     "time",
	"builtin_interfaces/msg/Duration": "duration",
}

// GenDef computes the canonical ROS1 concatenated message definition text and
// md5sum for a registered type, recursively expanding nested message fields
// into "=== \n MSG: pkg/Name" sections the way `gendigest`/`gendefhash` do in
// the reference toolchain. A std_msgs/msg/Header field gets its ROS1-only
// leading "uint32 seq" member reinstated for both the definition text and the
// hash.
func GenDef(reg *Registry, typename string) (deftext string, md5sum string, err error) {
	subdefs := map[string][2]string{}
	def, hash, err := genDefHash(reg, typename, subdefs)
	if err != nil {
		return "", "", err
	}

	var b strings.Builder
	b.WriteString(def)
	for name, pair := range subdefs {
		b.WriteString(strings.Repeat("=", 80))
		b.WriteByte('\n')
		b.WriteString("MSG: ")
		b.WriteString(denormalizeMsgType(name))
		b.WriteByte('\n')
		b.WriteString(pair[0])
	}
	return b.String(), hash, nil
}

// genDefHash returns a type's ROS1 definition text and md5sum, filling
// subdefs with every nested message type's own (deftext, md5sum) pair as it
// is encountered.
func genDefHash(reg *Registry, typename string, subdefs map[string][2]string) (string, string, error) {
	def, err := reg.Lookup(typename)
	if err != nil {
		return "", "", err
	}

	var deftext, hashtext []string
	for _, c := range def.Constants {
		line := c.Type.String() + " " + c.Name + "=" + c.Value
		deftext = append(deftext, line)
		hashtext = append(hashtext, line)
	}

	for _, f := range def.Fields {
		dline, hline, err := genFieldLines(reg, f, subdefs)
		if err != nil {
			return "", "", err
		}
		deftext = append(deftext, dline)
		hashtext = append(hashtext, hline)
	}

	if typename == "std_msgs/msg/Header" {
		deftext = append([]string{"uint32 seq"}, deftext...)
		hashtext = append([]string{"uint32 seq"}, hashtext...)
	}

	hash := md5.Sum([]byte(strings.Join(hashtext, "\n")))
	return strings.Join(deftext, "\n") + "\n", hex.EncodeToString(hash[:]), nil
}

func genFieldLines(reg *Registry, f Field, subdefs map[string][2]string) (string, string, error) {
	t := f.Type
	count := ""
	if t.Array {
		if !t.IsSequence() {
			count = strconv.Itoa(t.FixedSize)
		}
		t = *t.Items
	}
	suffix := ""
	if f.Type.Array {
		suffix = "[" + count + "]"
	}

	if t.IsPrimitive() {
		word := t.Primitive.String()
		line := word + suffix + " " + f.Name
		return line, line, nil
	}

	subname := t.Message
	if alias, ok := builtinTimeAliases[subname]; ok {
		line := alias + suffix + " " + f.Name
		return line, line, nil
	}

	if _, ok := subdefs[subname]; !ok {
		subdefs[subname] = [2]string{"", ""}
		subdeftext, subhash, err := genDefHash(reg, subname, subdefs)
		if err != nil {
			return "", "", err
		}
		subdefs[subname] = [2]string{subdeftext, subhash}
	}

	deftext := denormalizeMsgType(subname) + suffix + " " + f.Name
	hashtext := subdefs[subname][1] + suffix + " " + f.Name
	return deftext, hashtext, nil
}

// DenormalizeMsgType undoes the "pkg/msg/Name" canonical form back to the
// ROS1-style "pkg/Name", as found in concatenated ROS1 definition text and
// in a rosbag1 connection header's type field.
func DenormalizeMsgType(name string) string {
	return denormalizeMsgType(name)
}

// denormalizeMsgType undoes the "pkg/msg/Name" canonical form back to the
// ROS1-style "pkg/Name", as found in concatenated ROS1 definition text.
func denormalizeMsgType(name string) string {
	parts := strings.Split(name, "/")
	if len(parts) == 3 && parts[1] == "msg" {
		return parts[0] + "/" + parts[2]
	}
	return name
}
