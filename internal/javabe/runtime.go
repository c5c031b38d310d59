package javabe

import "strings"

// bridgeTemplate is the <Library>Native class. The module class generated
// from the wasm binary takes the memory budget and the host callbacks
// Date_now and Instant_now as constructor arguments.
const bridgeTemplate = `package {{package}};

import java.io.ByteArrayOutputStream;
import java.lang.invoke.MethodHandle;
import java.lang.invoke.MethodHandles;
import java.lang.invoke.MethodType;
import java.nio.ByteBuffer;
import java.nio.ByteOrder;
import java.nio.charset.Charset;
import java.nio.charset.StandardCharsets;
import java.time.Instant;
import java.time.ZoneOffset;
import java.time.ZonedDateTime;

public class {{native}} {
    public static {{library}} INSTANCE;
    static Charset charset = StandardCharsets.UTF_8;

    static {
        MethodHandle instantNow = null;
        MethodHandle dateNow = null;
        try {
            instantNow = MethodHandles.lookup().findStatic({{native}}.class, "Instant_now", MethodType.methodType(double.class));
            dateNow = MethodHandles.lookup().findStatic({{native}}.class, "Date_now", MethodType.methodType(void.class, int.class));
        } catch (ReflectiveOperationException e) {
            throw new ExceptionInInitializerError(e);
        }

        INSTANCE = new {{library}}(10 << 20, dateNow, null, null, instantNow);
    }

    static Long firstNanoTime = null;

    static synchronized double Instant_now() {
        long nanoTime = System.nanoTime();
        if (firstNanoTime == null) {
            firstNanoTime = nanoTime;
        }
        long diff = nanoTime - firstNanoTime;
        return (double)diff / 1_000_000_000.0;
    }

    static void Date_now(int ptr) {
        ZonedDateTime date = Instant.now().atZone(ZoneOffset.UTC);
        ByteBuffer mem = INSTANCE.getMemory().slice().order(ByteOrder.LITTLE_ENDIAN);
        mem.putShort(ptr, (short)date.getYear());
        mem.put(ptr + 2, (byte)date.getMonthValue());
        mem.put(ptr + 3, (byte)date.getDayOfMonth());
        mem.put(ptr + 4, (byte)date.getHour());
        mem.put(ptr + 5, (byte)date.getMinute());
        mem.put(ptr + 6, (byte)date.getSecond());
        mem.putShort(ptr + 7, (short)(date.getNano() / 1_000_000));
    }

    public static class AllocatedBuf {
        public int ptr;
        public int size;

        public void dealloc() {
            INSTANCE.dealloc(ptr, size);
        }
    }

    public static AllocatedBuf allocString(String s) {
        AllocatedBuf buf = new AllocatedBuf();
        byte[] bytes = s.getBytes(charset);
        buf.size = bytes.length + 1;
        buf.ptr = INSTANCE.alloc(buf.size);
        ByteBuffer mem = INSTANCE.getMemory().slice();
        mem.position(buf.ptr);
        mem.put(bytes);
        mem.put((byte)0);
        return buf;
    }

    public static String readString(int ptr) {
        ByteBuffer mem = INSTANCE.getMemory().slice();
        mem.position(ptr);
        ByteArrayOutputStream stream = new ByteArrayOutputStream();
        while (true) {
            byte val = mem.get();
            if (val == 0) {
                break;
            }
            stream.write(val);
        }
        return new String(stream.toByteArray(), charset);
    }
}
`

func (g *Generator) bridge() string {
	return strings.NewReplacer(
		"{{package}}", g.opts.JavaPackage,
		"{{native}}", g.native(),
		"{{library}}", g.opts.Library,
	).Replace(bridgeTemplate)
}
