package shader

const vertexMain = `#include <cube_uv_pars>
void main() {
    vec4 worldPos = u_model * vec4(a_pos, 1.0);
    gl_Position = u_proj * u_view * worldPos;
    v_normal = mat3(u_world) * a_normal;
#include <color_vertex>
#include <uv_vertex>
#include <cube_uv_vertex>
}`

const fragmentMain = `out vec4 fragColor;
#include <lighting>
void main() {
    vec3 normal = normalize(v_normal);
    vec4 color = vec4(1.0);
#include <color_fragment>
#include <map_fragment>
#include <cube_fragment>
#include <directional_light>
    fragColor = color;
}`

var builtinChunks = []Chunk{
	{Name: "cube_uv_pars", Guard: "SAMPLER_CUBE", Body: `vec3 cubeUv(vec3 pos) {
    return pos / u_cubeSize * 2.0 - 1.0;
}`},
	{Name: "color_vertex", Guard: "VERTEX_COLOR", Body: `    v_color = a_color;`},
	{Name: "uv_vertex", Guard: "SAMPLER_2D", Body: `    v_uv = a_uv;`},
	{Name: "cube_uv_vertex", Guard: "SAMPLER_CUBE", Body: `    v_cubeUv = cubeUv(a_pos);`},

	{Name: "lighting", Guard: "LIGHT", Body: `#include <light_factor>
#include <directional_light_pars>`},
	{Name: "light_factor", Body: `float lightFactor(vec3 normal, vec3 dir) {
    return max(dot(normal, normalize(dir)), 0.0);
}`},
	{Name: "directional_light_pars", Guard: "DIRECTIONAL_LIGHT", Body: `float directionalLight(vec3 normal) {
    float light = 0.0;
    for (int i = 0; i < NUM_DIRECTIONAL_LIGHT; i++) {
        light += lightFactor(normal, u_directionalLights[i]);
    }
    return clamp(light, 0.0, 1.0);
}`},

	{Name: "color_fragment", Guard: "VERTEX_COLOR", Body: `    color = vec4(v_color, 1.0);`},
	{Name: "map_fragment", Guard: "SAMPLER_2D", Body: `    color = texture(u_texture, v_uv);`},
	{Name: "cube_fragment", Guard: "SAMPLER_CUBE", Body: `    color = texture(u_cube, normalize(v_cubeUv));`},
	{Name: "directional_light", Guard: "DIRECTIONAL_LIGHT", Body: `    color.rgb *= directionalLight(normal);`},
}
